package catalog

import (
	"fmt"

	"github.com/hitoshi/recipebox/internal/model"
)

// UpstreamError はカタログが2xx以外のステータスを返したことを表す。
type UpstreamError struct {
	Endpoint string
	Status   int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("catalog %s returned status %d", e.Endpoint, e.Status)
}

// Unwrap はハンドラーがステータスを決定できるようAPIErrorを返す。
func (e *UpstreamError) Unwrap() error {
	return model.NewUpstreamError(e.Status)
}

// UpstreamUnavailableError はカタログに到達できなかったか、ボディを解釈できなかったことを表す。
type UpstreamUnavailableError struct {
	Endpoint string
	Err      error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("catalog %s unavailable: %v", e.Endpoint, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() []error {
	return []error{e.Err, model.NewUpstreamUnavailableError()}
}
