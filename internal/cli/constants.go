package cli

// Number of arguments expected by the config set command.
const setCommandArgs = 2

// Rows of the metadata table printed by the info command.
const (
	fieldTitle                    = "Title"
	fieldDescription              = "Description"
	fieldSampleProcessingProtocol = "Sample processing protocol"
	fieldDataProcessingProtocol   = "Data processing protocol"
	fieldDOI                      = "DOI"
)

// notFoundHeader introduces the names and patterns a download could not resolve.
const notFoundHeader = "Unable to find one or more of the files or patterns:"
