// internal/bot/service.go
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/metrics"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/summary"
	val "finance-tracker/internal/validator"
)

const listLimit = 10

const helpText = "💰 Финансовый трекер\n\n" +
	"Команды:\n" +
	"/expense <категория> <сумма> [описание] - добавить расход (PLN)\n" +
	"/inr <категория> <сумма> [описание] - добавить расход (INR)\n" +
	"/salary <месяц> <год> <сумма> [заметка] - добавить зарплату\n" +
	"/list [inr] - последние 10 расходов\n" +
	"/delete [inr] <id> - удалить расход\n" +
	"/summary [месяц] [год] - итоги за период"

// Service turns one chat message into one reply. It shares the store and
// the validation rules with the HTTP API.
type Service struct {
	store storage.Storage
	now   func() time.Time
}

func NewService(store storage.Storage) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Handle never returns an empty reply.
func (s *Service) Handle(ctx context.Context, text string) string {
	text = SanitizeInput(text)
	if text == "" {
		return "Неизвестная команда. Напиши /help"
	}

	fields := strings.Fields(text)
	command := strings.ToLower(fields[0])
	// /list@MyBot -> /list
	if i := strings.IndexByte(command, '@'); i > 0 {
		command = command[:i]
	}
	args := fields[1:]

	var (
		reply string
		err   error
	)
	switch command {
	case "/start", "/help":
		reply = helpText
	case "/expense":
		reply, err = s.addExpense(ctx, domain.Expenses, args)
	case "/inr":
		reply, err = s.addExpense(ctx, domain.IndianExpenses, args)
	case "/salary":
		reply, err = s.addSalary(ctx, args)
	case "/list":
		reply, err = s.list(ctx, args)
	case "/delete":
		reply, err = s.delete(ctx, args)
	case "/summary":
		reply, err = s.summary(ctx, args)
	default:
		return "Неизвестная команда. Напиши /help"
	}

	metrics.BotCommand(command, err != nil)
	if err != nil {
		return replyError(command, err)
	}
	return reply
}

// usageError is shown to the user verbatim.
type usageError string

func (e usageError) Error() string { return string(e) }

func replyError(command string, err error) string {
	var usage usageError
	if errors.As(err, &usage) {
		return "❌ Используй: " + string(usage)
	}
	if ve, ok := val.IsValidationError(err); ok {
		return "❌ " + ve.Error()
	}
	if errors.Is(err, domain.ErrNotFound) {
		return "📭 Запись не найдена"
	}
	slog.Error("Ошибка обработки команды", "command", command, "error", err)
	return "❌ Внутренняя ошибка, попробуй позже"
}

func collectionArg(args []string) (domain.ExpenseCollection, []string) {
	if len(args) > 0 && strings.EqualFold(args[0], "inr") {
		return domain.IndianExpenses, args[1:]
	}
	return domain.Expenses, args
}

// normalizeAmount accepts the decimal comma people type in chats.
func normalizeAmount(s string) string {
	return strings.ReplaceAll(s, ",", ".")
}

func (s *Service) addExpense(ctx context.Context, coll domain.ExpenseCollection, args []string) (string, error) {
	cmd := "/expense"
	if coll == domain.IndianExpenses {
		cmd = "/inr"
	}
	if len(args) < 2 {
		return "", usageError(cmd + " <категория> <сумма> [описание]")
	}

	values := map[string]any{
		"category": args[0],
		"amount":   normalizeAmount(args[1]),
		"date":     s.now().Format(time.RFC3339Nano),
	}
	if len(args) > 2 {
		values["description"] = strings.Join(args[2:], " ")
	}
	p, err := val.PayloadFrom(values)
	if err != nil {
		return "", err
	}
	in, err := val.Expense(p)
	if err != nil {
		return "", err
	}

	e, err := s.store.CreateExpense(ctx, coll, in)
	if err != nil {
		return "", err
	}
	metrics.RecordCreated(string(coll))

	return fmt.Sprintf("✅ Сохранено #%d: %s %s", e.ID, e.Category, FormatAmount(coll, e.Amount)), nil
}

func (s *Service) addSalary(ctx context.Context, args []string) (string, error) {
	if len(args) < 3 {
		return "", usageError("/salary <месяц> <год> <сумма> [заметка]")
	}

	values := map[string]any{
		"month":  args[0],
		"year":   args[1],
		"amount": normalizeAmount(args[2]),
		"date":   s.now().Format(time.RFC3339Nano),
	}
	if len(args) > 3 {
		values["notes"] = strings.Join(args[3:], " ")
	}
	p, err := val.PayloadFrom(values)
	if err != nil {
		return "", err
	}
	in, err := val.Salary(p)
	if err != nil {
		return "", err
	}

	sal, err := s.store.CreateSalary(ctx, in)
	if err != nil {
		return "", err
	}
	metrics.RecordCreated("salaries")

	return fmt.Sprintf("✅ Зарплата #%d: %s %d, %s", sal.ID, sal.Month, sal.Year, FormatAmount(domain.Expenses, sal.Amount)), nil
}

func (s *Service) list(ctx context.Context, args []string) (string, error) {
	coll, rest := collectionArg(args)
	if len(rest) > 0 {
		return "", usageError("/list [inr]")
	}

	expenses, err := s.store.ListExpenses(ctx, coll)
	if err != nil {
		return "", err
	}
	if len(expenses) == 0 {
		return "📭 Расходов пока нет", nil
	}
	if len(expenses) > listLimit {
		expenses = expenses[len(expenses)-listLimit:]
	}

	lines := []string{"🧾 Последние расходы:"}
	for _, e := range expenses {
		line := fmt.Sprintf("#%d %s %s %s", e.ID, e.Date.Format("2006-01-02"), e.Category, FormatAmount(coll, e.Amount))
		if e.Description != nil && *e.Description != "" {
			line += " (" + *e.Description + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Service) delete(ctx context.Context, args []string) (string, error) {
	coll, rest := collectionArg(args)
	if len(rest) != 1 {
		return "", usageError("/delete [inr] <id>")
	}
	id, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		return "", usageError("/delete [inr] <id>")
	}

	ok, err := s.store.DeleteExpense(ctx, coll, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrNotFound
	}
	metrics.RecordDeleted(string(coll))
	return fmt.Sprintf("🗑 Расход #%d удалён", id), nil
}

func (s *Service) summary(ctx context.Context, args []string) (string, error) {
	coll, rest := collectionArg(args)

	var month, year string
	switch len(rest) {
	case 0:
		now := s.now()
		month, year = now.Month().String(), strconv.Itoa(now.Year())
	case 1:
		month, year = rest[0], strconv.Itoa(s.now().Year())
	case 2:
		month, year = rest[0], rest[1]
	default:
		return "", usageError("/summary [inr] [месяц] [год]")
	}

	period, err := summary.ParsePeriod(month, year)
	if err != nil {
		return "", usageError("/summary [inr] [месяц] [год]: " + err.Error())
	}

	expenses, err := s.store.ListExpenses(ctx, coll)
	if err != nil {
		return "", err
	}
	salaries, err := s.store.ListSalaries(ctx)
	if err != nil {
		return "", err
	}
	sum := summary.Compute(coll, period, expenses, salaries)

	lines := []string{
		fmt.Sprintf("📊 Итоги за %s %s", sum.Month, sum.Year),
		"Доход: " + FormatAmount(coll, sum.TotalIncome),
		"Расходы: " + FormatAmount(coll, sum.TotalExpenses),
		"Накопления: " + FormatAmount(coll, sum.Savings),
	}
	for _, c := range sum.ByCategory {
		lines = append(lines, fmt.Sprintf("- %s: %s", c.Category, FormatAmount(coll, c.Amount)))
	}
	return strings.Join(lines, "\n"), nil
}
