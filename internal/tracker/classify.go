package tracker

import (
	"strings"

	"clamio/internal/domain"
)

// InferType picks an error type from the error's name and message. Only used
// when the caller did not supply an explicit type. First match wins.
func InferType(name, message string) string {
	text := strings.ToLower(name + " " + message)
	switch {
	case strings.Contains(text, "network"):
		return domain.ErrTypeNetwork
	case strings.Contains(text, "auth"), strings.Contains(text, "unauthorized"), strings.Contains(text, "forbidden"):
		return domain.ErrTypeAuthentication
	case strings.Contains(text, "validation"), strings.Contains(text, "invalid"):
		return domain.ErrTypeValidation
	case strings.Contains(text, "timeout"):
		return domain.ErrTypeTimeout
	default:
		return domain.ErrTypeUnknown
	}
}

var criticalTypes = map[string]bool{
	domain.ErrTypeNetwork:        true,
	domain.ErrTypeTimeout:        true,
	domain.ErrTypeAuthentication: true,
	domain.ErrTypePermission:     true,
}

var highTypes = map[string]bool{
	domain.ErrTypeValidation: true,
	domain.ErrTypeFile:       true,
	domain.ErrTypeData:       true,
}

var criticalOperations = map[string]bool{
	domain.OpClaimOrder:        true,
	domain.OpBulkClaimOrders:   true,
	domain.OpReverseOrder:      true,
	domain.OpBulkReverseOrders: true,
}

var highOperations = map[string]bool{
	domain.OpMarkReady:          true,
	domain.OpBulkMarkReady:      true,
	domain.OpDownloadLabel:      true,
	domain.OpBulkDownloadLabels: true,
}

// AssignSeverity rates an error. Rules are evaluated in priority order and
// the first match wins; the result is fixed at classification time.
func AssignSeverity(errType, operation, message string) string {
	if criticalTypes[errType] {
		return domain.SeverityCritical
	}
	if highTypes[errType] {
		return domain.SeverityHigh
	}
	if criticalOperations[operation] {
		return domain.SeverityCritical
	}
	if highOperations[operation] {
		return domain.SeverityHigh
	}
	msg := strings.ToLower(message)
	if strings.Contains(msg, "critical") || strings.Contains(msg, "fatal") {
		return domain.SeverityCritical
	}
	if strings.Contains(msg, "failed") || strings.Contains(msg, "error") {
		return domain.SeverityHigh
	}
	return domain.SeverityMedium
}

// ComposeTitle builds the notification title from the operation display
// name, falling back to the raw operation identifier, with the correlated
// order id appended when present.
func ComposeTitle(operation, orderID string) string {
	title, ok := domain.OperationTitles[operation]
	if !ok {
		title = operation
	}
	if orderID != "" {
		title += " (Order " + orderID + ")"
	}
	return title
}

// ComposeMessage appends the raw error text and order correlation to the
// operation display name.
func ComposeMessage(operation, rawError, orderID string) string {
	name, ok := domain.OperationTitles[operation]
	if !ok {
		name = operation
	}
	msg := name
	if rawError != "" {
		msg += ": " + rawError
	}
	if orderID != "" {
		msg += " (order " + orderID + ")"
	}
	return msg
}
