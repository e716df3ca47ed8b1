package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external program and whether doctor treats its
// absence as fatal.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is a Requirement after lookup. Command holds the resolved path
// when Available.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries looks each requirement up on PATH, preserving order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = lookup(req)
	}
	return results
}

func lookup(req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	switch resolved, err := exec.LookPath(status.Command); {
	case status.Command == "":
		status.Detail = "command not configured"
	case err != nil:
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
	default:
		status.Command = resolved
		status.Available = true
	}
	return status
}
