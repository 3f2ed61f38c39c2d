package interpreter

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"line-calendar-bot/internal/model"
	"line-calendar-bot/pkg/gemini"
)

// Interpret builds a context-aware prompt, calls Gemini, and decodes the
// returned JSON into a validated Command. Hard failures (network, bad
// status, empty candidates, unextractable JSON) are retried with
// exponential backoff; a response that parses but carries no actionable
// command returns (nil, nil) without retrying.
func (i *implInterpreter) Interpret(ctx context.Context, text string, convCtx model.ConversationContext, now time.Time) (*model.Command, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	prompt := i.buildPrompt(text, convCtx, now)

	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := BaseRetryDelay << (attempt - 2)
			i.l.Infof(ctx, "%s: retrying in %s (attempt %d/%d)", logPrefixInterpret, delay, attempt, MaxAttempts)
			if err := i.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		cmd, err := i.interpretOnce(ctx, prompt)
		if err == nil {
			return cmd, nil
		}

		i.l.Warnf(ctx, "%s: attempt %d/%d failed: %v", logPrefixInterpret, attempt, MaxAttempts, err)
		lastErr = err
	}

	i.l.Errorf(ctx, "%s: all %d attempts failed: %v", logPrefixInterpret, MaxAttempts, lastErr)
	return nil, fmt.Errorf("%w: %v", ErrLLMUnavailable, lastErr)
}

func (i *implInterpreter) interpretOnce(ctx context.Context, prompt string) (*model.Command, error) {
	resp, err := i.llm.GenerateContent(ctx, gemini.GenerateRequest{
		Contents: []gemini.Content{
			{Parts: []gemini.Part{{Text: prompt}}},
		},
		GenerationConfig: &gemini.GenerationConfig{
			Temperature:     PromptTemperature,
			MaxOutputTokens: PromptMaxTokens,
		},
	})
	if err != nil {
		return nil, err
	}

	raw, err := resp.Text()
	if err != nil {
		return nil, err
	}

	jsonText, ok := extractJSON(raw)
	if !ok {
		return nil, fmt.Errorf("no JSON object in LLM response")
	}

	cmd, ok := decodeCommand(jsonText)
	if !ok {
		// The model answered with valid JSON that holds no actionable
		// command. Not an outage, so no retry.
		return nil, nil
	}

	if err := cmd.Validate(); err != nil {
		i.l.Warnf(ctx, "%s: rejected command: %v", logPrefixInterpret, err)
		return nil, nil
	}
	return cmd, nil
}

func (i *implInterpreter) buildPrompt(text string, convCtx model.ConversationContext, now time.Time) string {
	today := now.In(i.dates.Location()).Format("2006年1月2日")

	contextSection := ""
	if convCtx.LastBotMessage != "" {
		contextSection = fmt.Sprintf(promptContextSection, convCtx.LastBotMessage)
	}

	return fmt.Sprintf(promptTemplate, today, contextSection, text)
}

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// extractJSON pulls a JSON object out of LLM output, tolerating fenced
// code blocks and surrounding prose.
func extractJSON(text string) (string, bool) {
	if m := fencedJSONRe.FindStringSubmatch(text); len(m) > 1 {
		text = m[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}

	candidate := strings.TrimSpace(text[start : end+1])
	if !gjson.Valid(candidate) {
		return "", false
	}
	return candidate, true
}

// decodeCommand maps loosely-typed LLM JSON onto a Command. gjson
// coerces the common model mistakes (numbers as strings, missing
// fields) without failing the whole parse.
func decodeCommand(jsonText string) (*model.Command, bool) {
	root := gjson.Parse(jsonText)

	action := strings.ToLower(root.Get("action").String())
	if action == "" {
		return nil, false
	}

	cmd := &model.Command{
		Action:    model.Action(action),
		Type:      model.EntityType(strings.ToLower(root.Get("type").String())),
		Title:     strings.TrimSpace(root.Get("title").String()),
		Keyword:   strings.TrimSpace(root.Get("keyword").String()),
		Date:      root.Get("date").String(),
		StartTime: root.Get("startTime").String(),
		EndTime:   root.Get("endTime").String(),
		Location:  root.Get("location").String(),
		URL:       root.Get("url").String(),
		ListName:  root.Get("listName").String(),
		Starred:   root.Get("starred").Bool(),
	}

	if n := root.Get("targetNumber"); n.Exists() {
		cmd.TargetNumber = int(n.Int())
	}
	for _, n := range root.Get("targetNumbers").Array() {
		if v := int(n.Int()); v > 0 {
			cmd.TargetNumbers = append(cmd.TargetNumbers, v)
		}
	}

	if cmd.Action == model.ActionCreate && cmd.Type == model.EntityEvent && cmd.StartTime == "" {
		cmd.IsAllDay = true
	}
	return cmd, true
}
