package bot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/letsssgooo/trainerBot/internal/client"
	"github.com/letsssgooo/trainerBot/internal/domain/models"
	"github.com/letsssgooo/trainerBot/internal/roles"
	"github.com/letsssgooo/trainerBot/internal/vacancy"
)

// handleCommand разбирает команду и вызывает обработчик.
func (b *Bot) handleCommand(ctx context.Context, chatID, userID int64, text string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}

	command := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}

	args := fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(text, fields[0]))

	switch command {
	case "start", "help":
		b.sendText(chatID, userID, msgHelp)
	case "trainme":
		b.cmdTrainMe(ctx, chatID, userID, args)
	case "quiz":
		b.cmdQuiz(ctx, chatID, userID, args)
	case "retake":
		b.cmdRetake(ctx, chatID, userID, args)
	case "scenarios":
		b.cmdScenarios(ctx, chatID, userID, args)
	case "myprogress":
		b.cmdMyProgress(ctx, chatID, userID)
	case "trainingpath":
		b.cmdTrainingPath(ctx, chatID, userID)
	case "review":
		b.cmdReview(ctx, chatID, userID, args)
	case "resources":
		b.cmdResources(chatID, userID, args)
	case "faq":
		b.cmdFAQ(chatID, userID, args)
	case "roleinfo":
		b.cmdRoleInfo(chatID, userID, args)
	case "leaderboard":
		b.cmdLeaderboard(ctx, chatID, userID)
	case "staffstats":
		b.cmdStaffStats(ctx, chatID, userID)
	case "jobs":
		b.cmdJobs(chatID, userID, args)
	case "vacancies":
		b.cmdVacancies(ctx, chatID, userID, args, rest)
	case "feedback":
		b.cmdFeedback(chatID, userID, rest)
	case "setonboarding":
		b.cmdSetOnboarding(ctx, chatID, userID, args, rest)
	case "setquiz":
		b.cmdSetQuiz(ctx, chatID, userID, args, rest)
	case "setresource":
		b.cmdSetResource(ctx, chatID, userID, args, rest)
	case "addmedia":
		b.cmdAddMedia(ctx, chatID, userID, args)
	case "setannounce":
		b.cmdSetChat(ctx, chatID, userID, args, "announce")
	case "setvacancychat":
		b.cmdSetChat(ctx, chatID, userID, args, "vacancy")
	case "announce":
		b.cmdAnnounce(ctx, chatID, userID, rest)
	case "testannounce":
		b.cmdAnnounce(ctx, chatID, userID, "📣 Announcement channel test. All good!")
	case "dbstats":
		b.cmdDBStats(ctx, chatID, userID)
	default:
		b.sendText(chatID, userID, msgUnknownCommand)
	}
}

// parseRoleArg разбирает аргумент роли, при ошибке сам отвечает пользователю.
func (b *Bot) parseRoleArg(chatID, userID int64, args []string) (roles.Role, bool) {
	if len(args) == 0 {
		b.sendText(chatID, userID, msgRoleRequired)
		return "", false
	}

	role, ok := roles.Parse(args[0])
	if !ok {
		b.sendText(chatID, userID, msgUnknownRole)
		return "", false
	}

	return role, true
}

func (b *Bot) cmdTrainMe(ctx context.Context, chatID, userID int64, args []string) {
	role, ok := b.parseRoleArg(chatID, userID, args)
	if !ok {
		return
	}

	payload, err := b.training.Start(ctx, userID, role)
	if err != nil {
		b.sendError(chatID, userID, "trainme", err)
		return
	}

	b.sendPayload(chatID, userID, payload)
}

func (b *Bot) cmdQuiz(ctx context.Context, chatID, userID int64, args []string) {
	role, ok := b.parseRoleArg(chatID, userID, args)
	if !ok {
		return
	}

	payload, err := b.quiz.Start(ctx, userID, role)
	if err != nil {
		b.sendError(chatID, userID, "quiz", err)
		return
	}

	b.sendPayload(chatID, userID, payload)
}

func (b *Bot) cmdRetake(ctx context.Context, chatID, userID int64, args []string) {
	role, ok := b.parseRoleArg(chatID, userID, args)
	if !ok {
		return
	}

	payload, err := b.quiz.Retake(ctx, userID, role)
	if err != nil {
		b.sendError(chatID, userID, "retake", err)
		return
	}

	b.sendPayload(chatID, userID, payload)
}

func (b *Bot) cmdScenarios(ctx context.Context, chatID, userID int64, args []string) {
	role, ok := b.parseRoleArg(chatID, userID, args)
	if !ok {
		return
	}

	payload, err := b.scenarios.Start(ctx, userID, role)
	if err != nil {
		b.sendError(chatID, userID, "scenarios", err)
		return
	}

	b.sendPayload(chatID, userID, payload)
}

func (b *Bot) cmdMyProgress(ctx context.Context, chatID, userID int64) {
	rec, err := b.store.LoadUserRecord(ctx, userID)
	if err != nil {
		b.sendError(chatID, userID, "myprogress", err)
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 **Your Training Progress**\n")

	for _, role := range roles.All() {
		status := rec.Status[string(role)]
		fmt.Fprintf(&sb, "\n**%s**\n", role.Name())
		fmt.Fprintf(&sb, "%s Onboarding\n", checkmark(status.Onboarding))
		fmt.Fprintf(&sb, "%s Quiz\n", checkmark(status.Quiz))
		fmt.Fprintf(&sb, "%s Certified\n", checkmark(status.Certified))
	}

	if rec.Training != nil {
		if role, ok := roles.Parse(rec.Training.Role); ok {
			fmt.Fprintf(&sb, "\n▶️ Active training: **%s**, step %d", role.Name(), rec.Training.Step+1)
		}
	}
	if rec.Quiz != nil {
		if role, ok := roles.Parse(rec.Quiz.Role); ok {
			fmt.Fprintf(&sb, "\n▶️ Active quiz: **%s**, question %d", role.Name(), rec.Quiz.Question+1)
		}
	}

	b.sendText(chatID, userID, sb.String())
}

func (b *Bot) cmdTrainingPath(ctx context.Context, chatID, userID int64) {
	rec, err := b.store.LoadUserRecord(ctx, userID)
	if err != nil {
		b.sendError(chatID, userID, "trainingpath", err)
		return
	}

	var sb strings.Builder
	sb.WriteString("🗺 **Your Training Path**\n\n")

	suggestion := ""
	for _, role := range roles.All() {
		status := rec.Status[string(role)]

		switch {
		case status.Certified:
			fmt.Fprintf(&sb, "✅ **%s** — certified\n", role.Name())
		case roles.Check(role, rec.Status) != nil:
			fmt.Fprintf(&sb, "🔒 **%s** — locked\n", role.Name())
		case status.Onboarding:
			fmt.Fprintf(&sb, "🔸 **%s** — training done, quiz pending\n", role.Name())
			if suggestion == "" {
				suggestion = fmt.Sprintf("Next step: /quiz %s", role)
			}
		default:
			fmt.Fprintf(&sb, "🔸 **%s** — available\n", role.Name())
			if suggestion == "" {
				suggestion = fmt.Sprintf("Next step: /trainme %s", role)
			}
		}
	}

	if suggestion == "" {
		suggestion = "You are fully certified. Congratulations! 🎉"
	}
	sb.WriteString("\n" + suggestion)

	b.sendText(chatID, userID, sb.String())
}

func (b *Bot) cmdReview(ctx context.Context, chatID, userID int64, args []string) {
	role, ok := b.parseRoleArg(chatID, userID, args)
	if !ok {
		return
	}

	questions := b.cfg.Questions(role)
	if len(questions) == 0 {
		b.sendText(chatID, userID, msgNoQuiz)
		return
	}

	rec, err := b.store.LoadUserRecord(ctx, userID)
	if err != nil {
		b.sendError(chatID, userID, "review", err)
		return
	}

	// Ответы показываются только сертифицированным: до сдачи квиза материал
	// для повторения состоит из одних вопросов.
	certified := rec.Status[string(role)].Certified

	var sb strings.Builder
	fmt.Fprintf(&sb, "📖 **%s Quiz Review**\n", role.Name())
	for i, q := range questions {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, q.Question)
		if certified {
			fmt.Fprintf(&sb, "\n   _%s_", q.Answer)
		}
	}
	if !certified {
		sb.WriteString("\n\nPass the quiz to unlock the answers.")
	}

	b.sendText(chatID, userID, sb.String())
}

func (b *Bot) cmdResources(chatID, userID int64, args []string) {
	role, ok := b.parseRoleArg(chatID, userID, args)
	if !ok {
		return
	}

	links := b.cfg.Resources(role)
	if len(links) == 0 {
		b.sendText(chatID, userID, msgNoContent)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 **%s Resources**\n", role.Name())
	for _, link := range links {
		fmt.Fprintf(&sb, "\n• %s", link)
	}

	b.sendText(chatID, userID, sb.String())
}

var faqByRole = map[roles.Role]string{
	roles.Support: `**Q: What do I do with an issue I cannot solve?**
A: Escalate it to an Administrator — never guess.

**Q: Where do I help users?**
A: In tickets. Keep the conversation there so others can follow up.`,
	roles.Admin: `**Q: Who handles escalations from Support Staff?**
A: You do. Pick them up promptly and close the loop with the reporter.

**Q: When do I involve Senior Leadership?**
A: For policy decisions and anything affecting the whole community.`,
	roles.SLT: `**Q: What is the main responsibility of Senior Leadership?**
A: Setting the vision and making final decisions on major issues.`,
}

func (b *Bot) cmdFAQ(chatID, userID int64, args []string) {
	var sb strings.Builder
	sb.WriteString("❓ **FAQ**\n\n")
	sb.WriteString("**Q: How do I get certified?**\n")
	sb.WriteString("A: Complete /trainme for your role, then pass /quiz. Roles unlock in order: support → admin → slt.\n\n")
	sb.WriteString("**Q: I failed the quiz. Now what?**\n")
	sb.WriteString("A: Use /retake to try again. A failed retake removes an earlier certification, so prepare with /review first.")

	if len(args) > 0 {
		role, ok := roles.Parse(args[0])
		if !ok {
			b.sendText(chatID, userID, msgUnknownRole)
			return
		}

		if roleFAQ, found := faqByRole[role]; found {
			fmt.Fprintf(&sb, "\n\n**%s**\n\n%s", role.Name(), roleFAQ)
		}
	}

	b.sendText(chatID, userID, sb.String())
}

func (b *Bot) cmdRoleInfo(chatID, userID int64, args []string) {
	role, ok := b.parseRoleArg(chatID, userID, args)
	if !ok {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "ℹ️ **%s**\n\n", role.Name())

	prereqs := role.Prerequisites()
	if len(prereqs) == 0 {
		sb.WriteString("Entry role, no prerequisites.\n")
	} else {
		names := make([]string, 0, len(prereqs))
		for _, p := range prereqs {
			names = append(names, p.Name())
		}
		fmt.Fprintf(&sb, "Requires certification for: %s.\n", strings.Join(names, ", "))
	}

	fmt.Fprintf(&sb, "\nTraining steps: %d\n", len(b.cfg.OnboardingSteps(role)))
	fmt.Fprintf(&sb, "Quiz questions: %d\n", len(b.cfg.Questions(role)))
	fmt.Fprintf(&sb, "Practice scenarios: %d", len(b.cfg.Scenarios(role)))

	b.sendText(chatID, userID, sb.String())
}

func (b *Bot) cmdLeaderboard(ctx context.Context, chatID, userID int64) {
	statuses, err := b.store.UserStatuses(ctx)
	if err != nil {
		b.sendError(chatID, userID, "leaderboard", err)
		return
	}

	type entry struct {
		userID    int64
		certified int
	}

	entries := make([]entry, 0, len(statuses))
	for id, status := range statuses {
		count := 0
		for _, role := range roles.All() {
			if status[string(role)].Certified {
				count++
			}
		}
		if count > 0 {
			entries = append(entries, entry{userID: id, certified: count})
		}
	}

	if len(entries) == 0 {
		b.sendText(chatID, userID, "Nobody is certified yet. Be the first with /trainme support!")
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].certified != entries[j].certified {
			return entries[i].certified > entries[j].certified
		}
		return entries[i].userID < entries[j].userID
	})

	if len(entries) > 10 {
		entries = entries[:10]
	}

	var sb strings.Builder
	sb.WriteString("🏆 **Certification Leaderboard**\n")
	for i, e := range entries {
		fmt.Fprintf(&sb, "\n%d. User %d — %d/%d roles certified", i+1, e.userID, e.certified, len(roles.All()))
	}

	b.sendText(chatID, userID, sb.String())
}

func (b *Bot) cmdStaffStats(ctx context.Context, chatID, userID int64) {
	statuses, err := b.store.UserStatuses(ctx)
	if err != nil {
		b.sendError(chatID, userID, "staffstats", err)
		return
	}

	var sb strings.Builder
	sb.WriteString("📈 **Staff Certification Stats**\n")
	fmt.Fprintf(&sb, "\nMembers in training: %d\n", len(statuses))

	for _, role := range roles.All() {
		onboarded, passed, certified := 0, 0, 0
		for _, status := range statuses {
			rs := status[string(role)]
			if rs.Onboarding {
				onboarded++
			}
			if rs.Quiz {
				passed++
			}
			if rs.Certified {
				certified++
			}
		}

		fmt.Fprintf(&sb, "\n**%s**: %d trained, %d passed quiz, %d certified",
			role.Name(), onboarded, passed, certified)
	}

	b.sendText(chatID, userID, sb.String())
}

// cmdJobs показывает страницу активных вакансий.
// Аргументы: номер страницы и фильтры вида dept=, type=, loc=.
func (b *Bot) cmdJobs(chatID, userID int64, args []string) {
	page := 1
	filter := vacancy.Filter{}

	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			page = n
			continue
		}

		key, value, found := strings.Cut(arg, "=")
		if !found {
			continue
		}
		switch strings.ToLower(key) {
		case "dept", "department":
			filter.Department = value
		case "type":
			filter.Type = value
		case "loc", "location":
			filter.Location = value
		}
	}

	result, err := b.vacancies.List(filter, page)
	if err != nil {
		b.sendError(chatID, userID, "jobs", err)
		return
	}

	if result.Total == 0 {
		b.sendText(chatID, userID, "No open vacancies right now. Check back later!")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "💼 **Open Vacancies** (page %d/%d, %d total)\n", result.Number, result.Pages, result.Total)
	for _, position := range result.Positions {
		sb.WriteString("\n" + vacancy.Summary(position) + "\n")
	}
	sb.WriteString("\nDetails: /vacancies view <id>")

	payload := &models.Payload{Text: sb.String()}
	if result.Number > 1 {
		payload.Options = append(payload.Options, models.Option{
			Key:   jobsPageKey(result.Number-1, filter),
			Label: "⬅️ Previous",
		})
	}
	if result.Number < result.Pages {
		payload.Options = append(payload.Options, models.Option{
			Key:   jobsPageKey(result.Number+1, filter),
			Label: "Next ➡️",
		})
	}

	b.sendPayload(chatID, userID, payload)
}

// jobsPageKey собирает ключ кнопки страницы вакансий. Активные фильтры
// кодируются в ключе, чтобы пагинация их не теряла.
func jobsPageKey(page int, filter vacancy.Filter) string {
	parts := []string{fmt.Sprintf("jobs_page_%d", page)}
	if filter.Department != "" {
		parts = append(parts, "dept="+filter.Department)
	}
	if filter.Type != "" {
		parts = append(parts, "type="+filter.Type)
	}
	if filter.Location != "" {
		parts = append(parts, "loc="+filter.Location)
	}

	return strings.Join(parts, " ")
}

func (b *Bot) cmdVacancies(ctx context.Context, chatID, userID int64, args []string, rest string) {
	if len(args) == 0 {
		b.sendText(chatID, userID, `**Vacancy commands**
/vacancies list [page] — open vacancies
/vacancies view <id> — vacancy details
/vacancies apply <id> [message] — apply

Admin only:
/vacancies add Title | Department | Description | req1; req2 | Salary | Type | Location | Deadline
/vacancies edit <id> <field> <value>
/vacancies close <id>
/vacancies delete <id>
/vacancies announce <id>`)
		return
	}

	sub := strings.ToLower(args[0])
	switch sub {
	case "list":
		b.cmdJobs(chatID, userID, args[1:])
	case "view":
		b.cmdVacancyView(chatID, userID, args[1:])
	case "apply":
		b.cmdVacancyApply(ctx, chatID, userID, args[1:])
	case "add":
		b.cmdVacancyAdd(ctx, chatID, userID, strings.TrimSpace(strings.TrimPrefix(rest, args[0])))
	case "edit":
		b.cmdVacancyEdit(ctx, chatID, userID, args[1:])
	case "close":
		b.cmdVacancyClose(ctx, chatID, userID, args[1:])
	case "delete":
		b.cmdVacancyDelete(ctx, chatID, userID, args[1:])
	case "announce":
		b.cmdVacancyAnnounce(chatID, userID, args[1:])
	default:
		b.sendText(chatID, userID, msgUnknownCommand)
	}
}

func (b *Bot) cmdVacancyView(chatID, userID int64, args []string) {
	if len(args) == 0 {
		b.sendText(chatID, userID, "Usage: /vacancies view <id>")
		return
	}

	position, err := b.vacancies.Get(args[0])
	if err != nil {
		b.sendError(chatID, userID, "vacancy_view", err)
		return
	}

	b.sendText(chatID, userID, vacancy.Announcement(position))
}

func (b *Bot) cmdVacancyApply(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) == 0 {
		b.sendText(chatID, userID, "Usage: /vacancies apply <id> [message]")
		return
	}

	message := strings.Join(args[1:], " ")
	if err := b.vacancies.Apply(ctx, args[0], userID, message); err != nil {
		b.sendError(chatID, userID, "vacancy_apply", err)
		return
	}

	b.sendText(chatID, userID, "✅ Your application has been submitted. Good luck!")
}

// cmdVacancyAdd создаёт вакансию из строк, разделённых вертикальной чертой:
// Title | Department | Description | req1; req2 | Salary | Type | Location | Deadline.
func (b *Bot) cmdVacancyAdd(ctx context.Context, chatID, userID int64, rest string) {
	if !b.isAdmin(userID) {
		b.sendText(chatID, userID, msgNotAdmin)
		return
	}

	parts := strings.Split(rest, "|")
	if len(parts) < 3 {
		b.sendText(chatID, userID,
			"Usage: /vacancies add Title | Department | Description | req1; req2 | Salary | Type | Location | Deadline")
		return
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	input := vacancy.Input{
		Title:       parts[0],
		Department:  parts[1],
		Description: parts[2],
	}
	if len(parts) > 3 && parts[3] != "" {
		for _, req := range strings.Split(parts[3], ";") {
			if req = strings.TrimSpace(req); req != "" {
				input.Requirements = append(input.Requirements, req)
			}
		}
	}
	if len(parts) > 4 {
		input.Salary = parts[4]
	}
	if len(parts) > 5 {
		input.Type = parts[5]
	}
	if len(parts) > 6 {
		input.Location = parts[6]
	}
	if len(parts) > 7 {
		input.Deadline = parts[7]
	}

	position, err := b.vacancies.Add(ctx, userID, input)
	if err != nil {
		b.sendError(chatID, userID, "vacancy_add", err)
		return
	}

	b.sendText(chatID, userID, fmt.Sprintf(
		"✅ Vacancy **%s** created.\nId: `%s`\nAnnounce it with /vacancies announce %s",
		position.Title, position.ID, position.ID,
	))
}

func (b *Bot) cmdVacancyEdit(ctx context.Context, chatID, userID int64, args []string) {
	if !b.isAdmin(userID) {
		b.sendText(chatID, userID, msgNotAdmin)
		return
	}
	if len(args) < 3 {
		b.sendText(chatID, userID,
			"Usage: /vacancies edit <id> <title|department|description|salary|type|location|deadline> <value>")
		return
	}

	id := args[0]
	value := strings.Join(args[2:], " ")

	update := vacancy.Update{}
	switch strings.ToLower(args[1]) {
	case "title":
		update.Title = &value
	case "department":
		update.Department = &value
	case "description":
		update.Description = &value
	case "salary":
		update.Salary = &value
	case "type":
		update.Type = &value
	case "location":
		update.Location = &value
	case "deadline":
		update.Deadline = &value
	default:
		b.sendText(chatID, userID, "Unknown field. Editable: title, department, description, salary, type, location, deadline.")
		return
	}

	position, err := b.vacancies.Edit(ctx, id, update)
	if err != nil {
		b.sendError(chatID, userID, "vacancy_edit", err)
		return
	}

	b.sendText(chatID, userID, fmt.Sprintf("✅ Vacancy **%s** updated.", position.Title))
}

func (b *Bot) cmdVacancyClose(ctx context.Context, chatID, userID int64, args []string) {
	if !b.isAdmin(userID) {
		b.sendText(chatID, userID, msgNotAdmin)
		return
	}
	if len(args) == 0 {
		b.sendText(chatID, userID, "Usage: /vacancies close <id>")
		return
	}

	closed := models.PositionClosed
	position, err := b.vacancies.Edit(ctx, args[0], vacancy.Update{Status: &closed})
	if err != nil {
		b.sendError(chatID, userID, "vacancy_close", err)
		return
	}

	b.sendText(chatID, userID, fmt.Sprintf("✅ Vacancy **%s** closed.", position.Title))
}

func (b *Bot) cmdVacancyDelete(ctx context.Context, chatID, userID int64, args []string) {
	if !b.isAdmin(userID) {
		b.sendText(chatID, userID, msgNotAdmin)
		return
	}
	if len(args) == 0 {
		b.sendText(chatID, userID, "Usage: /vacancies delete <id>")
		return
	}

	if err := b.vacancies.Delete(ctx, args[0]); err != nil {
		b.sendError(chatID, userID, "vacancy_delete", err)
		return
	}

	b.sendText(chatID, userID, "✅ Vacancy deleted.")
}

func (b *Bot) cmdVacancyAnnounce(chatID, userID int64, args []string) {
	if !b.isAdmin(userID) {
		b.sendText(chatID, userID, msgNotAdmin)
		return
	}
	if len(args) == 0 {
		b.sendText(chatID, userID, "Usage: /vacancies announce <id>")
		return
	}

	position, err := b.vacancies.Get(args[0])
	if err != nil {
		b.sendError(chatID, userID, "vacancy_announce", err)
		return
	}

	vacancyChat := b.cfg.VacancyChat()
	if vacancyChat == 0 {
		b.sendText(chatID, userID, msgVacancyChatNotSet)
		return
	}

	_, err = b.client.SendMessage(vacancyChat, vacancy.Announcement(position), nil)
	if err != nil {
		b.sendError(chatID, userID, "vacancy_announce", err)
		return
	}

	b.sendText(chatID, userID, "✅ Vacancy announced.")
}

func (b *Bot) cmdFeedback(chatID, userID int64, rest string) {
	if rest == "" {
		b.sendText(chatID, userID, msgFeedbackEmpty)
		return
	}

	text := fmt.Sprintf("💬 Feedback from user %d:\n\n%s", userID, rest)
	for adminID := range b.admins {
		b.sendText(adminID, userID, text)
	}

	b.sendText(chatID, userID, msgFeedbackThanks)
}

// cmdSetOnboarding заменяет шаги онбординга роли: тексты разделяются
// вертикальной чертой.
func (b *Bot) cmdSetOnboarding(ctx context.Context, chatID, userID int64, args []string, rest string) {
	if !b.isAdmin(userID) {
		b.sendText(chatID, userID, msgNotAdmin)
		return
	}

	role, ok := b.parseRoleArg(chatID, userID, args)
	if !ok {
		return
	}

	body := strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
	steps := make([]models.OnboardingStep, 0)
	for _, part := range strings.Split(body, "|") {
		if part = strings.TrimSpace(part); part != "" {
			steps = append(steps, models.OnboardingStep{Text: part})
		}
	}
	if len(steps) == 0 {
		b.sendText(chatID, userID, "Usage: /setonboarding <role> step one | step two | ...")
		return
	}

	err := b.cfg.Update(ctx, func(cfg *models.Config) {
		cfg.Onboarding[string(role)] = steps
	})
	if err != nil {
		b.sendError(chatID, userID, "setonboarding", err)
		return
	}

	b.sendText(chatID, userID, fmt.Sprintf("✅ Onboarding for **%s** updated: %d steps.", role.Name(), len(steps)))
}

// cmdSetQuiz заменяет вопросы квиза роли: пары "вопрос = ответ", разделённые
// вертикальной чертой.
func (b *Bot) cmdSetQuiz(ctx context.Context, chatID, userID int64, args []string, rest string) {
	if !b.isAdmin(userID) {
		b.sendText(chatID, userID, msgNotAdmin)
		return
	}

	role, ok := b.parseRoleArg(chatID, userID, args)
	if !ok {
		return
	}

	body := strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
	questions := make([]models.QuizQuestion, 0)
	for _, part := range strings.Split(body, "|") {
		question, answer, found := strings.Cut(part, "=")
		question = strings.TrimSpace(question)
		answer = strings.TrimSpace(answer)
		if !found || question == "" || answer == "" {
			continue
		}

		questions = append(questions, models.QuizQuestion{Question: question, Answer: answer})
	}
	if len(questions) == 0 {
		b.sendText(chatID, userID, "Usage: /setquiz <role> question one = answer | question two = answer")
		return
	}

	err := b.cfg.Update(ctx, func(cfg *models.Config) {
		cfg.Quizzes[string(role)] = questions
	})
	if err != nil {
		b.sendError(chatID, userID, "setquiz", err)
		return
	}

	b.sendText(chatID, userID, fmt.Sprintf("✅ Quiz for **%s** updated: %d questions.", role.Name(), len(questions)))
}

// cmdSetResource заменяет ссылки на ресурсы роли, разделитель — вертикальная черта.
func (b *Bot) cmdSetResource(ctx context.Context, chatID, userID int64, args []string, rest string) {
	if !b.isAdmin(userID) {
		b.sendText(chatID, userID, msgNotAdmin)
		return
	}

	role, ok := b.parseRoleArg(chatID, userID, args)
	if !ok {
		return
	}

	body := strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
	links := make([]string, 0)
	for _, part := range strings.Split(body, "|") {
		if part = strings.TrimSpace(part); part != "" {
			links = append(links, part)
		}
	}
	if len(links) == 0 {
		b.sendText(chatID, userID, "Usage: /setresource <role> link one | link two")
		return
	}

	err := b.cfg.Update(ctx, func(cfg *models.Config) {
		cfg.Resources[string(role)] = links
	})
	if err != nil {
		b.sendError(chatID, userID, "setresource", err)
		return
	}

	b.sendText(chatID, userID, fmt.Sprintf("✅ Resources for **%s** updated: %d links.", role.Name(), len(links)))
}

// cmdAddMedia прикрепляет медиа к шагу онбординга. Номер шага считается с единицы.
func (b *Bot) cmdAddMedia(ctx context.Context, chatID, userID int64, args []string) {
	if !b.isAdmin(userID) {
		b.sendText(chatID, userID, msgNotAdmin)
		return
	}
	if len(args) < 4 {
		b.sendText(chatID, userID, "Usage: /addmedia <role> <step> <image|video> <url>")
		return
	}

	role, ok := roles.Parse(args[0])
	if !ok {
		b.sendText(chatID, userID, msgUnknownRole)
		return
	}

	step, err := strconv.Atoi(args[1])
	if err != nil || step < 1 {
		b.sendText(chatID, userID, "Step must be a number starting from 1.")
		return
	}

	mediaType := strings.ToLower(args[2])
	if mediaType != models.MediaImage && mediaType != models.MediaVideo {
		b.sendText(chatID, userID, "Media type must be image or video.")
		return
	}

	total := len(b.cfg.OnboardingSteps(role))
	if step > total {
		b.sendText(chatID, userID, fmt.Sprintf("Step %d does not exist: **%s** has %d steps.", step, role.Name(), total))
		return
	}

	err = b.cfg.Update(ctx, func(cfg *models.Config) {
		steps := cfg.Onboarding[string(role)]
		if step > len(steps) {
			return
		}

		steps[step-1].Media = args[3]
		steps[step-1].MediaType = mediaType
	})
	if err != nil {
		b.sendError(chatID, userID, "addmedia", err)
		return
	}

	b.sendText(chatID, userID, fmt.Sprintf("✅ Media attached to **%s** step %d.", role.Name(), step))
}

// cmdSetChat настраивает канал объявлений или вакансий.
func (b *Bot) cmdSetChat(ctx context.Context, chatID, userID int64, args []string, kind string) {
	if !b.isAdmin(userID) {
		b.sendText(chatID, userID, msgNotAdmin)
		return
	}
	if len(args) == 0 {
		b.sendText(chatID, userID, fmt.Sprintf("Usage: /set%s <chat_id>", kind))
		return
	}

	target, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.sendText(chatID, userID, "Chat id must be a number.")
		return
	}

	err = b.cfg.Update(ctx, func(cfg *models.Config) {
		if kind == "vacancy" {
			cfg.VacancyChat = target
		} else {
			cfg.AnnounceChat = target
		}
	})
	if err != nil {
		b.sendError(chatID, userID, "set_chat", err)
		return
	}

	label := "Announcement"
	if kind == "vacancy" {
		label = "Vacancy"
	}
	b.sendText(chatID, userID, fmt.Sprintf("✅ %s channel set to %d.", label, target))
}

// cmdAnnounce публикует текст в канал объявлений.
func (b *Bot) cmdAnnounce(ctx context.Context, chatID, userID int64, text string) {
	if !b.isAdmin(userID) {
		b.sendText(chatID, userID, msgNotAdmin)
		return
	}
	if text == "" {
		b.sendText(chatID, userID, "Usage: /announce <text>")
		return
	}

	announceChat := b.cfg.AnnounceChat()
	if announceChat == 0 {
		b.sendText(chatID, userID, msgAnnounceChatNotSet)
		return
	}

	_, err := b.client.SendMessage(announceChat, text, &client.SendOptions{ParseMode: "Markdown"})
	if err != nil {
		b.sendError(chatID, userID, "announce", err)
		return
	}

	b.sendText(chatID, userID, "✅ Announcement posted.")
}

// cmdDBStats показывает объёмы данных.
func (b *Bot) cmdDBStats(ctx context.Context, chatID, userID int64) {
	if !b.isAdmin(userID) {
		b.sendText(chatID, userID, msgNotAdmin)
		return
	}

	statuses, err := b.store.UserStatuses(ctx)
	if err != nil {
		b.sendError(chatID, userID, "dbstats", err)
		return
	}

	state := b.cfg.Vacancies()
	applications := 0
	for _, apps := range state.Applications {
		applications += len(apps)
	}

	var sb strings.Builder
	sb.WriteString("🗄 **Storage Stats**\n")
	fmt.Fprintf(&sb, "\nUser records: %d", len(statuses))
	fmt.Fprintf(&sb, "\nVacancies: %d", len(state.Positions))
	fmt.Fprintf(&sb, "\nApplications: %d", applications)
	for _, role := range roles.All() {
		fmt.Fprintf(&sb, "\n%s content: %d steps, %d questions, %d scenarios",
			role.Name(),
			len(b.cfg.OnboardingSteps(role)),
			len(b.cfg.Questions(role)),
			len(b.cfg.Scenarios(role)),
		)
	}

	b.sendText(chatID, userID, sb.String())
}

func checkmark(done bool) string {
	if done {
		return "✅"
	}

	return "❌"
}
