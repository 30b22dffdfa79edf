package shared

import (
	"net/http"

	"hrportal/internal/domain/permerror"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/transport/http/views"
)

// ApplyUpstreamError folds a failed backend call into page data: a
// reported 403 becomes the permission dialog, anything else a generic
// page error. Returns the status the page should be served with.
func ApplyUpstreamError(data *views.PageData, collector *metrics.Collector, err error) int {
	if translated, handled := permerror.TranslateError(err); handled {
		if collector != nil {
			collector.RecordUpstreamDenial()
		}
		data.Dialog = views.NewPermissionDialog(translated, nil)
		return http.StatusForbidden
	}
	data.Error = "Something went wrong loading this page. Please try again."
	return http.StatusBadGateway
}
