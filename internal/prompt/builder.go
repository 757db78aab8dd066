// Package prompt assembles the system prompt for the counseling agent.
//
// Building is deterministic and pure: the same profile always yields the
// same text, and nothing here touches the network.
package prompt

import (
	"fmt"
	"strings"

	"github.com/pathwaysai/pathways/internal/tools"
)

// Profile is the optional student profile sent with a chat request.
// It is pure input data: consumed once to enrich the system prompt,
// never mutated or persisted.
type Profile struct {
	CurrentSchool string   `json:"currentSchool,omitempty"`
	TargetSchools []string `json:"targetSchools,omitempty"`
	TargetMajor   string   `json:"targetMajor,omitempty"`
}

// baseSystemTemplate frames the assistant's role and scope. The tool
// catalog and any profile block are appended by System.
const baseSystemTemplate = `You are Pathways, a transfer counselor for community college students planning to transfer to four-year universities.

You help students understand transfer requirements, compare universities, track application deadlines, and estimate costs. You know the California community college to UC/CSU articulation system well, and you can look up live data with the tools below.

## Using Tools
When you need current data, invoke a tool by writing the call inline in your reply, exactly in this form:

<TOOL_CALL>tool_name(param="value", other="value")</TOOL_CALL>

Parameter values are always double-quoted. You may invoke more than one tool in a single reply. Tool results will be sent back to you in the next message; use them to answer the student in plain language. Never show raw tool output or the call syntax to the student.

## Available Tools`

// System returns the complete system prompt. If profile is non-nil and
// has at least one field set, a Student Profile block is appended.
func System(profile *Profile) string {
	var b strings.Builder
	b.WriteString(baseSystemTemplate)
	b.WriteString("\n")

	for _, t := range tools.Catalog() {
		fmt.Fprintf(&b, "- %s: use %s. Parameters: %s. Returns %s.\n",
			t.Name, t.Usage, t.Params, t.Returns)
	}

	b.WriteString("\n## Rules\n")
	b.WriteString("- Only invoke a tool when the student's question needs data you don't have.\n")
	b.WriteString("- Answer directly for greetings and general advice.\n")
	b.WriteString("- Keep answers specific and actionable.")

	if block := profileBlock(profile); block != "" {
		b.WriteString("\n\n")
		b.WriteString(block)
	}

	return b.String()
}

// profileBlock renders the Student Profile section. Unset fields are
// omitted; if nothing is set the whole block is omitted.
func profileBlock(p *Profile) string {
	if p == nil {
		return ""
	}

	var lines []string
	if p.CurrentSchool != "" {
		lines = append(lines, "- Current school: "+p.CurrentSchool)
	}
	if len(p.TargetSchools) > 0 {
		lines = append(lines, "- Target schools: "+strings.Join(p.TargetSchools, ", "))
	}
	if p.TargetMajor != "" {
		lines = append(lines, "- Target major: "+p.TargetMajor)
	}
	if len(lines) == 0 {
		return ""
	}

	return "## Student Profile\n" +
		strings.Join(lines, "\n") +
		"\n\nPersonalize your advice to this student, and invoke tools with their schools and major when relevant."
}
