package clinic

import "github.com/medcrm/syncbox"

// Domain and endpoint names for the synced domain families.
const (
	DomainMessages  = "messages"
	DomainTemplates = "templates"
	DomainParties   = "parties"
	DomainSGK       = "sgk_documents"

	EndpointMessages  = "/api/v1/messages"
	EndpointTemplates = "/api/v1/message-templates"
	EndpointParties   = "/api/v1/parties"
	EndpointSGK       = "/api/v1/sgk/documents"
)

// Deps carries the shared collaborators every domain service is built on.
type Deps struct {
	Store     syncbox.Store
	Transport syncbox.Requester
	Bus       *syncbox.Bus
	Monitor   *syncbox.Monitor
	Processor *syncbox.Processor
}

func (d Deps) options(extra ...syncbox.ServiceOption) []syncbox.ServiceOption {
	opts := []syncbox.ServiceOption{
		syncbox.WithServiceBus(d.Bus),
		syncbox.WithServiceMonitor(d.Monitor),
		syncbox.WithServiceProcessor(d.Processor),
	}

	return append(opts, extra...)
}

// NewMessageService builds the patient messaging service. Delivered messages
// are marked synced immediately so the UI can show a sent state without
// waiting for the next pull.
func NewMessageService(cache syncbox.Cache[Message], deps Deps, opts ...syncbox.ServiceOption) *syncbox.Service[Message] {
	base := deps.options(syncbox.WithMarkSyncedOnSuccess(true))

	return syncbox.NewService(DomainMessages, EndpointMessages, cache, deps.Store, deps.Transport,
		append(base, opts...)...)
}

// NewTemplateService builds the message template service.
func NewTemplateService(cache syncbox.Cache[Template], deps Deps, opts ...syncbox.ServiceOption) *syncbox.Service[Template] {
	return syncbox.NewService(DomainTemplates, EndpointTemplates, cache, deps.Store, deps.Transport,
		append(deps.options(), opts...)...)
}

// NewPartyService builds the party record service. Party state is owned by
// the server; entries stay pending until the next reconciliation pull.
func NewPartyService(cache syncbox.Cache[Party], deps Deps, opts ...syncbox.ServiceOption) *syncbox.Service[Party] {
	return syncbox.NewService(DomainParties, EndpointParties, cache, deps.Store, deps.Transport,
		append(deps.options(), opts...)...)
}

// NewSGKDocumentService builds the SGK document upload service.
func NewSGKDocumentService(cache syncbox.Cache[SGKDocument], deps Deps, opts ...syncbox.ServiceOption) *syncbox.Service[SGKDocument] {
	base := deps.options(syncbox.WithMarkSyncedOnSuccess(true))

	return syncbox.NewService(DomainSGK, EndpointSGK, cache, deps.Store, deps.Transport,
		append(base, opts...)...)
}
