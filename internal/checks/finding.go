package checks

type Status string

const (
	StatusOK      Status = "OK"
	StatusFlagged Status = "FLAGGED"
	StatusError   Status = "ERROR"
)

type Finding struct {
	CheckID string `json:"check_id"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	// Details contains simple key-value string pairs supporting the finding.
	Details map[string]string `json:"details,omitempty"`
}

func OK(checkID, message string) Finding {
	return Finding{CheckID: checkID, Status: StatusOK, Message: message}
}

func Flagged(checkID, message string) Finding {
	return Finding{CheckID: checkID, Status: StatusFlagged, Message: message}
}

func Error(checkID, message string) Finding {
	return Finding{CheckID: checkID, Status: StatusError, Message: message}
}
