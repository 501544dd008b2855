package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common habit tracking workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("daily_checkin").
		Description("Log today's progress on every active habit and celebrate what it unlocks.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Daily Check-in", `Help me log today's progress. Please:

1. List my active habits using the habittracker://habits/active resource
2. For each habit, ask me the value I reached today, in the habit's unit
3. Log each answer with progress.log (skip habits I say I did not do)

Then:
- Tell me which achievements the logging unlocked, if any
- Point out any habit whose target I beat by a wide margin
- Mention the current streak of each habit I logged, using stats.habit`), nil
		})

	srv.Prompt("weekly_review").
		Description("Review the past week: consistency, streaks, trends and achievements.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Weekly Review Session", `Let's review my week. Please:

1. Check my overall activity using stats.user with days = 7
2. Compare my habits using the habittracker://stats/compare resource
3. Review recent achievements using achievement.list with recent_days = 7

Help me analyze:

**Wins:**
- Which habits did I keep up every day?
- Which streaks grew?
- What did I unlock?

**Gaps:**
- Which habits fell behind and on which days?
- Is any habit declining according to its trend?

**Next week:**
- Which single habit deserves the most attention?
- Is any target unrealistic and worth adjusting with habit.update?
- Is any habit no longer useful and worth deactivating?`), nil
		})

	srv.Prompt("habit_setup").
		Description("Design a new habit with a realistic unit and target.").
		Argument("title", "Name of the habit you want to build", true).
		Argument("frequency", "DAILY, WEEKLY or MONTHLY", false).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			title := args["title"]
			if title == "" {
				title = "[Please specify the habit you want to build]"
			}
			frequency := args["frequency"]
			if frequency == "" {
				frequency = "DAILY"
			}

			return userPrompt("Habit Setup Assistant", fmt.Sprintf(`Help me set up a new habit:

**Habit:** %s
**Frequency:** %s

1. First, review my existing habits using habittracker://habits
2. Check my consistency so far using habittracker://stats/me

Then help me decide:
- The category that fits best (SPORT, SANTE, EDUCATION, TRAVAIL, LIFESTYLE, SOCIAL, CREATIVITE, FINANCE, AUTRE)
- A measurable unit (minutes, pages, km, times...)
- A target I can reach on most days; start small

Once I confirm, create it with habit.create.`, title, frequency)), nil
		})

	srv.Prompt("habit_deep_dive").
		Description("Analyze one habit in depth using its statistics and chart data.").
		Argument("habit_id", "ID of the habit to analyze", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			habitID := args["habit_id"]
			if habitID == "" {
				habitID = "[Please specify the habit ID]"
			}

			return userPrompt("Habit Deep Dive", fmt.Sprintf(`Analyze habit %s for me:

1. Get its statistics over 90 days using stats.habit
2. Get its weekly chart using stats.chart with type = weekly
3. Get its activity heatmap using stats.chart with type = heatmap and days = 90

Tell me:
- How consistent I am and whether the trend is improving, stable or declining
- My longest streak and how close I am to beating it
- How often I reach the target
- Patterns in the heatmap such as skipped weekdays
- One concrete change that would raise my completion rate`, habitID)), nil
		})

	srv.Prompt("achievement_hunt").
		Description("Find the achievements that are closest to being unlocked.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Achievement Hunt", `Help me unlock my next achievements:

1. Read the full catalog using habittracker://achievements/catalog
2. Read what I already have using habittracker://achievements
3. Check my activity using habittracker://stats/me and habittracker://stats/compare

For each achievement I do not have yet, estimate how far I am from it and
list the three closest ones with the exact actions that would unlock them.`), nil
		})

	return nil
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}
