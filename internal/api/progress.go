package api

// ProgressUpdate is one milestone of an analysis request, delivered on
// the client's progress channel so a host UI can render an indicator.
type ProgressUpdate struct {
	Percent int
	Message string
}

// Progress milestones for submitForAnalysis.
var (
	progressUploading = ProgressUpdate{Percent: 0, Message: "Uploading images…"}
	progressUploaded  = ProgressUpdate{Percent: 25, Message: "Images uploaded"}
	progressProcessed = ProgressUpdate{Percent: 60, Message: "Analysis complete"}
	progressFormatted = ProgressUpdate{Percent: 85, Message: "Building scene…"}
	progressComplete  = ProgressUpdate{Percent: 100, Message: "Done"}
	progressError     = ProgressUpdate{Percent: 0, Message: "Error occurred"}
)
