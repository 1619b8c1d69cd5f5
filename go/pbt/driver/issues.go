// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/Fantom-foundation/pbt/go/pbt/check"
	"gopkg.in/yaml.v3"
)

type issue struct {
	name   string
	report string
	replay *check.Parameters // < nil if the issue can not be replayed
}

type issuesCollector struct {
	issues []issue
	mu     sync.Mutex
}

func (c *issuesCollector) AddIssue(name, report string, replay *check.Parameters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issues = append(c.issues, issue{name, report, replay})
}

func (c *issuesCollector) NumIssues() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.issues)
}

// ExportIssues prints all issues. Parameters replaying an issue are written
// to a temporary directory for use with the --config flag.
func (c *issuesCollector) ExportIssues(out io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.issues) == 0 {
		return nil
	}
	dir, err := os.MkdirTemp("", "pbt_issues_*")
	if err != nil {
		return fmt.Errorf("failed to create output directory for %d issues", len(c.issues))
	}
	for i, issue := range c.issues {
		fmt.Fprintf(out, "----------------------------\n")
		fmt.Fprintf(out, "%s:\n%s\n", issue.name, issue.report)
		if issue.replay == nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("issue_%06d.yaml", i))
		if err := exportParameters(*issue.replay, path); err == nil {
			fmt.Fprintf(out, "Replay parameters dumped to %s\n", path)
		} else {
			fmt.Fprintf(out, "failed to dump replay parameters: %v\n", err)
		}
	}
	return nil
}

func exportParameters(params check.Parameters, path string) error {
	data, err := yaml.Marshal(params)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
