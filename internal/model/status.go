package model

// JobStatus represents the status of a transcription job
type JobStatus string

const (
	// JobStatusPending means the job is queued but not started
	JobStatusPending JobStatus = "Pending"

	// JobStatusStarting means the URL is being validated and metadata fetched
	JobStatusStarting JobStatus = "Starting"

	// JobStatusDownloading means the audio stream is being downloaded
	JobStatusDownloading JobStatus = "Downloading"

	// JobStatusConverting means the audio is being converted or split for the model
	JobStatusConverting JobStatus = "Converting"

	// JobStatusTranscribing means the speech model is running
	JobStatusTranscribing JobStatus = "Transcribing"

	// JobStatusSaving means the transcript is being written to disk
	JobStatusSaving JobStatus = "Saving"

	// JobStatusStopping means the job is in the process of stopping
	JobStatusStopping JobStatus = "Stopping"

	// JobStatusStopped means the job was stopped by user
	JobStatusStopped JobStatus = "Stopped"

	// JobStatusCompleted means the transcript was produced and saved
	JobStatusCompleted JobStatus = "Completed"

	// JobStatusError means the job failed with an error
	JobStatusError JobStatus = "Error"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsActive returns true if the job is in an active state
func (js JobStatus) IsActive() bool {
	switch js {
	case JobStatusStarting, JobStatusDownloading, JobStatusConverting,
		JobStatusTranscribing, JobStatusSaving, JobStatusStopping:
		return true
	default:
		return false
	}
}

// IsFinished returns true if the job is in a finished state (completed, stopped, or error)
func (js JobStatus) IsFinished() bool {
	return js == JobStatusCompleted || js == JobStatusStopped || js == JobStatusError
}
