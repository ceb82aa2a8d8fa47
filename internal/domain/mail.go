package domain

const (
	MailTypeScheduleSaved = "schedule_saved"
	MailTypeExportReady   = "export_ready"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ScheduleSavedMailData struct {
	Period     string   `json:"period"`
	Workplaces []string `json:"workplaces"`
	SavedBy    string   `json:"savedBy"`
}

type ExportReadyMailData struct {
	Period  string   `json:"period"`
	BatchID string   `json:"batchID"`
	Files   []string `json:"files"`
}
