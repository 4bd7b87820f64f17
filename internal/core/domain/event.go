package domain

// StorageEvent is a bucket notification as published by MinIO.
type StorageEvent struct {
	EventName string `json:"EventName"`
	Key       string `json:"Key"`
	Records   []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key  string `json:"key"`
				Size int64  `json:"size"`
				ETag string `json:"eTag"`
			} `json:"object"`
		} `json:"s3"`
		EventTime string `json:"eventTime"`
	} `json:"Records"`
}

// EventType is a type that represents the type of a storage event
type EventType string

const (
	EventTypeSimpleUploadComplete    EventType = "SimpleUploadComplete"
	EventTypeMultipartUploadComplete EventType = "MultipartUploadComplete"
	EventTypeUnknown                 EventType = "Unknown"
)
