// Package clinic wires syncbox services for the clinic CRM domains that use
// the offline queue: patient messaging, message templates, party records and
// SGK document uploads. Each domain owns an independent cache and performs
// its own reconciliation pulls; only the durable operation queue is shared.
package clinic
