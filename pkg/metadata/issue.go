package metadata

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func NewSeverity(value string) (Severity, error) {
	severity := Severity(value)
	if !severity.isValid() {
		return "", fmt.Errorf("invalid severity: %s", value)
	}
	return severity, nil
}

func (s Severity) isValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

func (s Severity) String() string {
	return string(s)
}

type IssueStatus string

const (
	IssueOpen       IssueStatus = "open"
	IssueInProgress IssueStatus = "in_progress"
	IssueResolved   IssueStatus = "resolved"
	IssueClosed     IssueStatus = "closed"
)

func NewIssueStatus(value string) (IssueStatus, error) {
	status := IssueStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid issue status: %s", value)
	}
	return status, nil
}

func (s IssueStatus) isValid() bool {
	switch s {
	case IssueOpen, IssueInProgress, IssueResolved, IssueClosed:
		return true
	default:
		return false
	}
}

func (s IssueStatus) String() string {
	return string(s)
}
