package gateway

const (
	OpListSurveys             = "ListSurveys"
	OpListDeletedSurveys      = "ListDeletedSurveys"
	OpSearchSurveys           = "SearchSurveys"
	OpGetSurvey               = "GetSurvey"
	OpCreateSurvey            = "CreateSurvey"
	OpUpdateSurvey            = "UpdateSurvey"
	OpDeleteSurvey            = "DeleteSurvey"
	OpRestoreSurvey           = "RestoreSurvey"
	OpDeleteSurveyPermanently = "DeleteSurveyPermanently"
	OpListVersions            = "ListVersions"
	OpRestoreVersion          = "RestoreVersion"
	OpPublishSurvey           = "PublishSurvey"
	OpUnpublishSurvey         = "UnpublishSurvey"
	OpDuplicateSurvey         = "DuplicateSurvey"
	OpBulkDeleteSurveys       = "BulkDeleteSurveys"
	OpBulkPublishSurveys      = "BulkPublishSurveys"
	OpBulkUnpublishSurveys    = "BulkUnpublishSurveys"

	OpAddQuestion      = "AddQuestion"
	OpUpdateQuestion   = "UpdateQuestion"
	OpDeleteQuestion   = "DeleteQuestion"
	OpReorderQuestions = "ReorderQuestions"

	OpGetAnalytics        = "GetAnalytics"
	OpGetResponseStats    = "GetResponseStats"
	OpGetCompletionRate   = "GetCompletionRate"
	OpGetResponseTimeline = "GetResponseTimeline"
	OpGetDeviceStats      = "GetDeviceStats"
	OpGetLocationStats    = "GetLocationStats"
	OpExportResponses     = "ExportResponses"
	OpExportAnalytics     = "ExportAnalytics"

	OpListTemplates   = "ListTemplates"
	OpSearchTemplates = "SearchTemplates"
	OpGetTemplate     = "GetTemplate"
	OpCreateTemplate  = "CreateTemplate"
	OpUpdateTemplate  = "UpdateTemplate"
	OpDeleteTemplate  = "DeleteTemplate"
	OpSaveAsTemplate  = "SaveAsTemplate"

	OpGetShareSettings    = "GetShareSettings"
	OpUpdateShareSettings = "UpdateShareSettings"
	OpGenerateShareLink   = "GenerateShareLink"
	OpGenerateQRCode      = "GenerateQRCode"

	OpValidateSurvey   = "ValidateSurvey"
	OpValidateQuestion = "ValidateQuestion"
	OpGetQuestionTypes = "GetQuestionTypes"
	OpGetEmojiScales   = "GetEmojiScales"
	OpGetSurveyThemes  = "GetSurveyThemes"
)

const genericFallback = "Request to survey storage failed"

var fallbackMessages = map[string]string{
	OpListSurveys:             "Failed to fetch surveys",
	OpListDeletedSurveys:      "Failed to fetch deleted surveys",
	OpSearchSurveys:           "Failed to search surveys",
	OpGetSurvey:               "Failed to fetch survey",
	OpCreateSurvey:            "Failed to create survey",
	OpUpdateSurvey:            "Failed to update survey",
	OpDeleteSurvey:            "Failed to delete survey",
	OpRestoreSurvey:           "Failed to restore survey",
	OpDeleteSurveyPermanently: "Failed to permanently delete survey",
	OpListVersions:            "Failed to fetch survey versions",
	OpRestoreVersion:          "Failed to restore version",
	OpPublishSurvey:           "Failed to publish survey",
	OpUnpublishSurvey:         "Failed to unpublish survey",
	OpDuplicateSurvey:         "Failed to duplicate survey",
	OpBulkDeleteSurveys:       "Failed to bulk delete surveys",
	OpBulkPublishSurveys:      "Failed to bulk publish surveys",
	OpBulkUnpublishSurveys:    "Failed to bulk unpublish surveys",

	OpAddQuestion:      "Failed to add question",
	OpUpdateQuestion:   "Failed to update question",
	OpDeleteQuestion:   "Failed to delete question",
	OpReorderQuestions: "Failed to reorder questions",

	OpGetAnalytics:        "Failed to fetch analytics",
	OpGetResponseStats:    "Failed to fetch response stats",
	OpGetCompletionRate:   "Failed to fetch completion rate",
	OpGetResponseTimeline: "Failed to fetch response timeline",
	OpGetDeviceStats:      "Failed to fetch device stats",
	OpGetLocationStats:    "Failed to fetch location stats",
	OpExportResponses:     "Failed to export responses",
	OpExportAnalytics:     "Failed to export analytics",

	OpListTemplates:   "Failed to fetch templates",
	OpSearchTemplates: "Failed to search templates",
	OpGetTemplate:     "Failed to fetch template",
	OpCreateTemplate:  "Failed to create template",
	OpUpdateTemplate:  "Failed to update template",
	OpDeleteTemplate:  "Failed to delete template",
	OpSaveAsTemplate:  "Failed to save as template",

	OpGetShareSettings:    "Failed to fetch share settings",
	OpUpdateShareSettings: "Failed to update share settings",
	OpGenerateShareLink:   "Failed to generate share link",
	OpGenerateQRCode:      "Failed to generate QR code",

	OpValidateSurvey:   "Failed to validate survey",
	OpValidateQuestion: "Failed to validate question",
	OpGetQuestionTypes: "Failed to fetch question types",
	OpGetEmojiScales:   "Failed to fetch emoji scales",
	OpGetSurveyThemes:  "Failed to fetch survey themes",
}

func fallbackMessage(op string) string {
	if message, ok := fallbackMessages[op]; ok {
		return message
	}
	return genericFallback
}
