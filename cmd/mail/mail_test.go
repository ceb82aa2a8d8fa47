package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
)

func TestBuildMessageExportReady(t *testing.T) {
	body, err := json.Marshal(domain.MailMessage{
		Type: domain.MailTypeExportReady,
		To:   "ops@example.com",
		Data: domain.ExportReadyMailData{Period: "1402-1", BatchID: "batch-1", Files: []string{"Nodal_1402_1.xlsx"}},
	})
	require.NoError(t, err)

	msg, err := buildMessage("noreply@example.com", body)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ops@example.com")
}

func TestBuildMessageScheduleSaved(t *testing.T) {
	body, err := json.Marshal(domain.MailMessage{
		Type: domain.MailTypeScheduleSaved,
		To:   "ops@example.com",
		Data: domain.ScheduleSavedMailData{Period: "1402-1", Workplaces: []string{"Nodal"}, SavedBy: "42"},
	})
	require.NoError(t, err)

	_, err = buildMessage("noreply@example.com", body)
	assert.NoError(t, err)
}

func TestBuildMessageRejectsUnknownType(t *testing.T) {
	_, err := buildMessage("noreply@example.com", []byte(`{"type":"create_user","to":"ops@example.com"}`))
	assert.Error(t, err)

	_, err = buildMessage("noreply@example.com", []byte(`{not json`))
	assert.Error(t, err)

	_, err = buildMessage("noreply@example.com", []byte(`{"type":"export_ready","to":"not an address"}`))
	assert.Error(t, err)
}
