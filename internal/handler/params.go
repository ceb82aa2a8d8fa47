package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// periodValue 同时接受 JSON 数字和字符串形式的年份或月份，保留原始文本
type periodValue string

func (v *periodValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = periodValue(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("年份和月份必须是数字或字符串")
	}
	*v = periodValue(n.String())
	return nil
}

// periodInt 与 periodValue 相同，但要求能解析为整数
type periodInt int

func (v *periodInt) UnmarshalJSON(data []byte) error {
	var raw periodValue
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}

	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return fmt.Errorf("无效的数字 %q", string(raw))
	}
	*v = periodInt(n)
	return nil
}
