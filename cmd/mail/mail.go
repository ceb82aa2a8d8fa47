package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templatesFS embed.FS

// queuedMail 与 domain.MailMessage 对应，Data 延迟到确定类型后再解析
type queuedMail struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

type mailTemplate struct {
	file    string
	subject string
	data    func() any
}

var mailTemplates = map[string]mailTemplate{
	domain.MailTypeScheduleSaved: {
		file:    "templates/schedule_saved.html",
		subject: "排班系统 - 排班已更新",
		data:    func() any { return &domain.ScheduleSavedMailData{} },
	},
	domain.MailTypeExportReady: {
		file:    "templates/export_ready.html",
		subject: "排班系统 - 排班表已生成",
		data:    func() any { return &domain.ExportReadyMailData{} },
	},
}

// buildMessage 根据队列中的消息构建邮件
func buildMessage(from string, body []byte) (*mail.Msg, error) {
	queued := queuedMail{}
	if err := json.Unmarshal(body, &queued); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	mt, ok := mailTemplates[queued.Type]
	if !ok {
		return nil, fmt.Errorf("不支持的邮件类型 %q", queued.Type)
	}

	data := mt.data()
	if len(queued.Data) > 0 {
		if err := json.Unmarshal(queued.Data, data); err != nil {
			return nil, fmt.Errorf("邮件数据反序列化失败: %w", err)
		}
	}

	tmpl, err := template.ParseFS(templatesFS, mt.file)
	if err != nil {
		return nil, fmt.Errorf("无法解析邮件模板: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := msg.To(queued.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	if err := msg.SetBodyHTMLTemplate(tmpl, data); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}
	msg.Subject(mt.subject)

	return msg, nil
}
