package generation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ai-briefbuilder-be/pkg/store"
)

const (
	TaskExtractInsights       = "extract_insights"
	TaskSynthesizeStrategy    = "synthesize_strategy"
	TaskGenerateFinalDocument = "generate_final_document"
)

// MaxSourceRunes caps how much research text goes into a single prompt.
const MaxSourceRunes = 24000

func truncateSource(raw string) string {
	raw = strings.TrimSpace(raw)
	if utf8.RuneCountInString(raw) <= MaxSourceRunes {
		return raw
	}
	runes := []rune(raw)
	return string(runes[:MaxSourceRunes]) + "\n[...truncated]"
}

func writeTask(b *strings.Builder, task string) {
	b.WriteString("<task>")
	b.WriteString(task)
	b.WriteString("</task>\n\n")
}

func writeSource(b *strings.Builder, raw string) {
	b.WriteString("<research>\n")
	b.WriteString(truncateSource(raw))
	b.WriteString("\n</research>\n\n")
}

func writeInsight(b *strings.Builder, in store.Insight) {
	b.WriteString("<selected_insight>\n")
	fmt.Fprintf(b, "HEADLINE: %s\n", in.Headline)
	fmt.Fprintf(b, "TEXT: %s\n", in.Text)
	if in.JobToBeDone != "" {
		fmt.Fprintf(b, "JOB_TO_BE_DONE: %s\n", in.JobToBeDone)
	}
	for _, v := range in.Verbatims {
		fmt.Fprintf(b, "VERBATIM: %q\n", v)
	}
	b.WriteString("</selected_insight>\n\n")
}

func buildInsightsPrompt(raw string) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a consumer insight strategist. Read the research and extract the consumer insights it supports.\n")
	prompt.WriteString("Only use evidence present in the research. Do not invent quotes.\n")
	prompt.WriteString("</system>\n\n")
	writeTask(&prompt, TaskExtractInsights)
	writeSource(&prompt, raw)

	prompt.WriteString("<rules>\n")
	prompt.WriteString("- Return between 3 and 8 insights ordered from most to least relevant.\n")
	prompt.WriteString("- relevance is a number from 0 to 10.\n")
	prompt.WriteString("- verbatims are exact quotes copied from the research.\n")
	prompt.WriteString("- If the research does not support any insight, return an empty list.\n")
	prompt.WriteString("</rules>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"insights\": [\n")
	prompt.WriteString("    {\"headline\": \"short title\", \"text\": \"the insight\", \"verbatims\": [\"quote\"], \"relevance\": 8.5, \"category\": \"tag\", \"job_to_be_done\": \"when I..., I want to..., so I can...\"}\n")
	prompt.WriteString("  ]\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func buildStrategyPrompt(raw string, insight store.Insight) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a brand strategist. Turn the selected consumer insight into a communication strategy.\n")
	prompt.WriteString("</system>\n\n")
	writeTask(&prompt, TaskSynthesizeStrategy)
	writeInsight(&prompt, insight)
	writeSource(&prompt, raw)

	prompt.WriteString("<rules>\n")
	prompt.WriteString("- essence is one short phrase capturing the strategic idea.\n")
	prompt.WriteString("- unlock is one short phrase naming what changes the consumer's mind.\n")
	prompt.WriteString("- sections are ordered; each has a title, a one-line purpose, a short summary and long-form content.\n")
	prompt.WriteString("</rules>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"essence\": \"...\",\n")
	prompt.WriteString("  \"unlock\": \"...\",\n")
	prompt.WriteString("  \"sections\": [{\"title\": \"...\", \"purpose\": \"...\", \"summary\": \"...\", \"content\": \"...\"}]\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func buildFinalDocumentPrompt(in FinalDocumentInput) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a senior account planner writing a creative brief for an agency team.\n")
	prompt.WriteString("Ground every field in the selected insight and the research.\n")
	prompt.WriteString("</system>\n\n")
	writeTask(&prompt, TaskGenerateFinalDocument)

	prompt.WriteString("<product>\n")
	fmt.Fprintf(&prompt, "NAME: %s\n", in.ProductName)
	if in.Category != "" {
		fmt.Fprintf(&prompt, "CATEGORY: %s\n", in.Category)
	}
	prompt.WriteString("</product>\n\n")

	writeInsight(&prompt, in.Insight)

	if in.Strategy != nil {
		prompt.WriteString("<strategy>\n")
		fmt.Fprintf(&prompt, "ESSENCE: %s\n", in.Strategy.Essence)
		fmt.Fprintf(&prompt, "UNLOCK: %s\n", in.Strategy.Unlock)
		for i, sec := range in.Strategy.Sections {
			fmt.Fprintf(&prompt, "%d. %s: %s\n", i+1, sec.Title, sec.Summary)
		}
		prompt.WriteString("</strategy>\n\n")
	}

	writeSource(&prompt, in.RawText)

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"business_objective\": {\"objective\": \"...\", \"success_metric\": \"...\"},\n")
	prompt.WriteString("  \"consumer_problem\": {\"audience\": \"...\", \"problem\": \"...\", \"tension\": \"...\"},\n")
	prompt.WriteString("  \"communication_challenge\": {\"challenge\": \"...\", \"barrier\": \"...\"},\n")
	prompt.WriteString("  \"message_strategy\": {\"proposition\": \"...\", \"reasons_to_believe\": [\"...\"], \"tone\": \"...\"},\n")
	prompt.WriteString("  \"insights\": [{\"headline\": \"...\", \"text\": \"...\"}],\n")
	prompt.WriteString("  \"execution\": {\"mandatories\": [\"...\"], \"channels\": [\"...\"], \"guidance\": \"...\"}\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}
