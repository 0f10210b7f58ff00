package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"monthlyzen/internal/model"
	"monthlyzen/internal/prompt"
	"monthlyzen/internal/repository"
	"monthlyzen/internal/service"
)

const (
	menuLabelPlan    = "✨ New plan"
	menuLabelTasks   = "📋 Tasks"
	menuLabelInsight = "🌅 Insight"
	menuLabelHelp    = "ℹ️ Help"
)

// Bot aggregates the Telegram API with the Monthly Zen services.
type Bot struct {
	api            *tgbotapi.BotAPI
	userRepo       *repository.UserRepository
	taskRepo       *repository.TaskRepository
	resolutionRepo *repository.ResolutionRepository
	quotaSvc       *service.QuotaService
	planSvc        *service.PlanService
	progressSvc    *service.ProgressService
	insightSvc     *service.InsightService
	logger         *zap.Logger
}

func New(
	token string,
	userRepo *repository.UserRepository,
	taskRepo *repository.TaskRepository,
	resolutionRepo *repository.ResolutionRepository,
	quotaSvc *service.QuotaService,
	planSvc *service.PlanService,
	progressSvc *service.ProgressService,
	insightSvc *service.InsightService,
	logger *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	logger.Info("bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:            api,
		userRepo:       userRepo,
		taskRepo:       taskRepo,
		resolutionRepo: resolutionRepo,
		quotaSvc:       quotaSvc,
		planSvc:        planSvc,
		progressSvc:    progressSvc,
		insightSvc:     insightSvc,
		logger:         logger,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.logger.Warn("handle message", zap.Error(err))
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
		return b.sendText(msg.Chat.ID, "I didn't catch that. Try /plan to generate a month, or /help for the full list.")
	}

	b.logger.Info("command",
		zap.Int64("from", msg.From.ID),
		zap.String("command", msg.Command()),
	)

	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "plan":
		return b.handlePlan(ctx, msg)
	case "tasks":
		return b.handleTasks(ctx, msg)
	case "done":
		return b.handleDone(ctx, msg)
	case "quota":
		return b.handleQuota(ctx, msg)
	case "boost":
		return b.handleBoost(ctx, msg)
	case "history":
		return b.handleHistory(ctx, msg)
	case "insight", "report":
		return b.handleInsight(ctx, msg)
	case "resolutions":
		return b.handleResolutions(ctx, msg)
	case "newres":
		return b.handleNewResolution(ctx, msg)
	case "delres":
		return b.handleArchiveResolution(ctx, msg)
	case "progress":
		return b.handleProgress(ctx, msg)
	case "coach":
		return b.handleCoach(ctx, msg)
	case "link":
		return b.handleLink(ctx, msg, true)
	case "unlink":
		return b.handleLink(ctx, msg, false)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf(
		"👋 Hi %s!\n<b>I'm Monthly Zen — describe a goal and I'll plan your month around it.</b>\n\nCommands:\n"+
			"• /plan &lt;goal&gt; — generate a monthly plan\n"+
			"• /tasks — upcoming tasks for the next 7 days\n"+
			"• /done &lt;id&gt; — mark a task completed\n"+
			"• /insight — today's coaching insight\n"+
			"• /quota — remaining plan generations\n"+
			"• /resolutions — your resolutions\n"+
			"• /help — everything else",
		escape(name),
	)

	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Monthly Zen commands</b>\n" +
		"• /plan &lt;goal&gt; — generate a monthly plan (uses one generation)\n" +
		"• /tasks — upcoming tasks for the next 7 days\n" +
		"• /done &lt;id&gt; — mark a task completed\n" +
		"• /insight — today's coaching insight\n" +
		"• /quota — generation quota status\n" +
		"• /boost &lt;amount&gt; &lt;reason&gt; — request extra generations\n" +
		"• /history [months] — past quota periods\n" +
		"• /resolutions — list resolutions\n" +
		"• /newres [monthly|yearly] &lt;text&gt; — add a resolution\n" +
		"• /delres &lt;id&gt; — archive a resolution\n" +
		"• /progress &lt;id&gt; — resolution progress\n" +
		"• /link &lt;task&gt; &lt;resolution&gt; — link a task to a resolution\n" +
		"• /unlink &lt;task&gt; &lt;resolution&gt; — remove the link\n" +
		"• /coach &lt;tone&gt; [name] — set the coaching persona"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handlePlan(ctx context.Context, msg *tgbotapi.Message) error {
	goal := strings.TrimSpace(msg.CommandArguments())
	if goal == "" {
		return b.sendText(msg.Chat.ID, "Describe the goal: /plan Learn conversational Spanish")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	if err := b.sendText(msg.Chat.ID, "🧘 Planning your month, give me a moment…"); err != nil {
		return err
	}

	plan, err := b.planSvc.Generate(ctx, user, service.PlanRequest{Goal: goal}, time.Now())
	if err != nil {
		if service.IsQuotaExhausted(err) {
			return b.sendText(msg.Chat.ID, "🚫 Your generation quota for this period is used up. Check /quota, or /boost to request more.")
		}
		b.logger.Warn("plan generation failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return b.sendText(msg.Chat.ID, "Something went wrong while generating the plan. Your quota was not charged — please try again.")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✨ <b>Plan for %s</b>\n\n", escape(plan.MonthYear)))
	if plan.Summary != "" {
		sb.WriteString(escape(plan.Summary))
		sb.WriteString("\n\n")
	}
	sb.WriteString("Use /tasks to see what's scheduled next.")
	return b.sendText(msg.Chat.ID, sb.String())
}

func (b *Bot) handleTasks(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	now := time.Now()
	tasks, err := b.taskRepo.ListUpcoming(ctx, user.ID, now.AddDate(0, 0, -1), now.AddDate(0, 0, 7))
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't load tasks: %s", escape(err.Error())))
	}
	if len(tasks) == 0 {
		return b.sendText(msg.Chat.ID, "No upcoming tasks. Generate a plan with /plan <goal>.")
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Upcoming tasks</b>\n\n")
	for _, task := range tasks {
		sb.WriteString(fmt.Sprintf("• <b>#%d</b> %s\n", task.ID, escape(task.Title)))
		sb.WriteString(fmt.Sprintf("   🕑 %s %s–%s", task.StartTime.Format("Mon 02 Jan"), task.StartTime.Format("15:04"), task.EndTime.Format("15:04")))
		if task.FocusArea != "" {
			sb.WriteString(fmt.Sprintf(" · <i>%s</i>", escape(task.FocusArea)))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\nMark one done with /done <id>.")
	return b.sendText(msg.Chat.ID, sb.String())
}

func (b *Bot) handleDone(ctx context.Context, msg *tgbotapi.Message) error {
	taskID, err := parseID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give me the task id: /done 12")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	task, err := b.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(msg.Chat.ID, "Task not found.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}
	if task.IsCompleted {
		return b.sendText(msg.Chat.ID, "That task is already done.")
	}

	if err := b.taskRepo.MarkCompleted(ctx, task, time.Now()); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}

	b.logger.Info("task completed", zap.Uint("task_id", task.ID), zap.Uint("user_id", user.ID))
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Done: %s", escape(task.Title)))
}

func (b *Bot) handleQuota(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	now := time.Now()
	quota, err := b.quotaSvc.Current(ctx, user.ID, now)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't load quota: %s", escape(err.Error())))
	}

	view := service.DeriveView(quota, now)
	icon := "🟢"
	switch view.Status {
	case model.QuotaStatusLow:
		icon = "🟡"
	case model.QuotaStatusExceeded:
		icon = "🔴"
	}

	text := fmt.Sprintf(
		"%s <b>Generation quota — %s</b>\n"+
			"• Used: %d of %d (%.0f%%)\n"+
			"• Remaining: %d\n"+
			"• Status: %s\n"+
			"• Resets in %d days (%s)",
		icon, escape(view.MonthYear),
		view.Used, view.TotalAllowed, view.UsagePercent,
		view.Remaining,
		view.Status,
		view.DaysUntilReset, view.ResetsOn.Format("2006-01-02"),
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleBoost(ctx context.Context, msg *tgbotapi.Message) error {
	parts := strings.SplitN(strings.TrimSpace(msg.CommandArguments()), " ", 2)
	if len(parts) < 2 {
		return b.sendText(msg.Chat.ID, "Usage: /boost 10 preparing two parallel project plans")
	}
	amount, err := strconv.Atoi(parts[0])
	if err != nil {
		return b.sendText(msg.Chat.ID, "The amount must be a number: /boost 10 <reason>")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	quota, err := b.quotaSvc.RequestIncrease(ctx, user.ID, amount, parts[1], time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't apply the boost: %s", escape(err.Error())))
	}

	return b.sendText(msg.Chat.ID, fmt.Sprintf("🚀 Allowance raised to %d generations for %s.", quota.TotalAllowed, escape(quota.MonthYear)))
}

func (b *Bot) handleHistory(ctx context.Context, msg *tgbotapi.Message) error {
	months := 3
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		if parsed, err := strconv.Atoi(arg); err == nil {
			months = parsed
		}
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	entries, err := b.quotaSvc.History(ctx, user.ID, months, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't load history: %s", escape(err.Error())))
	}
	if len(entries) == 0 {
		return b.sendText(msg.Chat.ID, "No archived quota periods yet.")
	}

	var sb strings.Builder
	sb.WriteString("🗂 <b>Quota history</b>\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("• %s — used %d of %d (requested %d)\n", escape(e.MonthYear), e.GenerationsUsed, e.TotalAllowed, e.TotalRequested))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(sb.String()))
}

func (b *Bot) handleInsight(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	insight := b.insightSvc.MorningIntention(ctx, user.ID, time.Now())
	return b.sendText(msg.Chat.ID, formatInsight(insight))
}

func (b *Bot) handleResolutions(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	resolutions, err := b.resolutionRepo.ListActive(ctx, user.ID)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't load resolutions: %s", escape(err.Error())))
	}
	if len(resolutions) == 0 {
		return b.sendText(msg.Chat.ID, "No resolutions yet. Add one: /newres yearly Read 24 books")
	}

	var sb strings.Builder
	sb.WriteString("🎯 <b>Resolutions</b>\n")
	for _, res := range resolutions {
		sb.WriteString(fmt.Sprintf("• <b>#%d</b> [%s] %s", res.ID, res.ResolutionType, escape(res.Text)))
		if res.Category != "" {
			sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", escape(res.Category)))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\nCheck progress with /progress <id>.")
	return b.sendText(msg.Chat.ID, sb.String())
}

func (b *Bot) handleNewResolution(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return b.sendText(msg.Chat.ID, "Usage: /newres yearly Read 24 books (type is optional, defaults to monthly)")
	}

	resolutionType := model.ResolutionMonthly
	text := args
	parts := strings.SplitN(args, " ", 2)
	if len(parts) == 2 {
		switch strings.ToLower(parts[0]) {
		case model.ResolutionMonthly, model.ResolutionYearly:
			resolutionType = strings.ToLower(parts[0])
			text = strings.TrimSpace(parts[1])
		}
	}
	if text == "" {
		return b.sendText(msg.Chat.ID, "The resolution needs some text.")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	resolution := model.Resolution{
		UserID:         user.ID,
		Text:           text,
		ResolutionType: resolutionType,
	}
	if err := b.resolutionRepo.Create(ctx, &resolution); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't save the resolution: %s", escape(err.Error())))
	}

	return b.sendText(msg.Chat.ID, fmt.Sprintf("🎯 Saved resolution <b>#%d</b> (%s): %s", resolution.ID, resolution.ResolutionType, escape(resolution.Text)))
}

func (b *Bot) handleArchiveResolution(ctx context.Context, msg *tgbotapi.Message) error {
	resolutionID, err := parseID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give me the resolution id: /delres 3")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	if err := b.resolutionRepo.Archive(ctx, user.ID, resolutionID, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(msg.Chat.ID, "Resolution not found.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}

	return b.sendText(msg.Chat.ID, "🗂 Resolution archived. Linked task history stays intact.")
}

func (b *Bot) handleProgress(ctx context.Context, msg *tgbotapi.Message) error {
	resolutionID, err := parseID(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Give me the resolution id: /progress 3")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	percent, err := b.progressSvc.CalculateProgress(ctx, user.ID, resolutionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(msg.Chat.ID, "Resolution not found.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}

	return b.sendText(msg.Chat.ID, fmt.Sprintf("📈 Resolution <b>#%d</b> is at <b>%d%%</b> (%s).", resolutionID, percent, progressBar(percent)))
}

func (b *Bot) handleCoach(ctx context.Context, msg *tgbotapi.Message) error {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) == 0 {
		return b.sendText(msg.Chat.ID, "Usage: /coach encouraging Zen (tone is one of encouraging, direct, analytical, friendly; the name is optional)")
	}

	tone := strings.ToLower(fields[0])
	switch tone {
	case prompt.ToneEncouraging, prompt.ToneDirect, prompt.ToneAnalytical, prompt.ToneFriendly:
	default:
		return b.sendText(msg.Chat.ID, "The tone must be one of: encouraging, direct, analytical, friendly.")
	}
	name := strings.TrimSpace(strings.Join(fields[1:], " "))

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	if err := b.userRepo.UpdateCoach(ctx, user.ID, name, tone); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Couldn't update the coach: %s", escape(err.Error())))
	}

	if name == "" {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("🧘 Your coach will use %s tone from the next plan on.", escape(tone)))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🧘 Meet <b>%s</b>, your %s coach. The next plan will carry the new voice.", escape(name), escape(tone)))
}

func (b *Bot) handleLink(ctx context.Context, msg *tgbotapi.Message, link bool) error {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) != 2 {
		if link {
			return b.sendText(msg.Chat.ID, "Usage: /link <task id> <resolution id>")
		}
		return b.sendText(msg.Chat.ID, "Usage: /unlink <task id> <resolution id>")
	}
	taskID, err1 := parseID(fields[0])
	resolutionID, err2 := parseID(fields[1])
	if err1 != nil || err2 != nil {
		return b.sendText(msg.Chat.ID, "Both ids must be numbers.")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	var task *model.Task
	if link {
		task, err = b.progressSvc.Link(ctx, user.ID, taskID, resolutionID)
	} else {
		task, err = b.progressSvc.Unlink(ctx, user.ID, taskID, resolutionID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendText(msg.Chat.ID, "Task or resolution not found.")
		}
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Error: %s", escape(err.Error())))
	}

	if link {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("🔗 Task <b>#%d</b> now supports resolution <b>#%d</b>.", task.ID, resolutionID))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✂️ Task <b>#%d</b> no longer counts toward resolution <b>#%d</b>.", task.ID, resolutionID))
}

// SendMorningIntentions delivers the daily insight banner to every known
// user. Insight computation never fails; send errors are logged per user and
// do not stop the broadcast.
func (b *Bot) SendMorningIntentions(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		insight := b.insightSvc.MorningIntention(ctx, user.ID, now)
		if err := b.sendText(user.TelegramID, formatInsight(insight)); err != nil {
			b.logger.Warn("send morning intention",
				zap.Int64("telegram_id", user.TelegramID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelPlan):
		return true, b.sendText(msg.Chat.ID, "Describe the goal: /plan Learn conversational Spanish")
	case strings.ToLower(menuLabelTasks):
		return true, b.handleTasks(ctx, msg)
	case strings.ToLower(menuLabelInsight):
		return true, b.handleInsight(ctx, msg)
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelPlan),
			tgbotapi.NewKeyboardButton(menuLabelTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelInsight),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func formatInsight(insight model.Insight) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🌅 <b>%s</b>\n\n", escape(insight.Title)))
	sb.WriteString(escape(insight.Message))
	if insight.SuggestedAction != "" {
		sb.WriteString(fmt.Sprintf("\n\n👉 %s", escape(insight.SuggestedAction)))
	}
	sb.WriteString(fmt.Sprintf("\n\n<i>Confidence: %d%%</i>", insight.Confidence))
	return sb.String()
}

func progressBar(percent int) string {
	filled := percent / 10
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", 10-filled)
}

func parseID(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

func escape(s string) string {
	return html.EscapeString(s)
}
