package queue

type QueueIngestVideoMsg struct {
	Message       string `json:"message"`
	VideoID       string `json:"video_id"`
	Category      string `json:"category,omitempty"`
	Language      string `json:"language,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

type QueueDeleteVideoMsg struct {
	Message       string `json:"message"`
	VideoID       string `json:"video_id"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

type QueueRebuildGraphMsg struct {
	Message       string `json:"message"`
	Category      string `json:"category,omitempty"`
	Reason        string `json:"reason,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
