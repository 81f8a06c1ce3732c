package audit

import "context"

type nopService struct{}

// NewNop returns an audit service that discards every event. Used by tests
// and local runs without an Elasticsearch cluster.
func NewNop() Service {
	return nopService{}
}

func (nopService) LogEvent(ctx context.Context, event *AuditEvent) error {
	return nil
}

func (nopService) QueryEvents(ctx context.Context, filters map[string]interface{}, from, size int) ([]AuditEvent, error) {
	return nil, nil
}
