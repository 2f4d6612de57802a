package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"hytech_pos/internal/config"
	"hytech_pos/internal/llm"
	"hytech_pos/internal/register"

	"go.uber.org/zap"
	"golang.org/x/term"
)

type Runner struct {
	options     Options
	logger      *zap.Logger
	controller  *register.Controller
	catalog     register.Catalog
	assistant   chatter
	in          io.Reader
	out         io.Writer
	errOut      io.Writer
	interactive bool
}

func NewRunner(cfg config.Config, logger *zap.Logger, controller *register.Controller, catalog register.Catalog, llmClient *llm.Client) *Runner {
	return &Runner{
		options:     Options{Currency: cfg.Currency},
		logger:      logger.Named("cli"),
		controller:  controller,
		catalog:     catalog,
		assistant:   llmClient,
		in:          os.Stdin,
		out:         os.Stdout,
		errOut:      os.Stderr,
		interactive: isTerminal(os.Stdin),
	}
}

func (r *Runner) Execute() error {
	return r.run(os.Args[1:])
}

func (r *Runner) run(args []string) error {
	fs := flag.NewFlagSet("hytech-pos", flag.ContinueOnError)
	fs.SetOutput(r.errOut)
	fs.Usage = func() {
		fmt.Fprintf(r.errOut, "Usage: %s [flags] [barcode ...]\n", fs.Name())
		fmt.Fprintln(r.errOut, "Without barcodes the register starts interactively.")
		fs.PrintDefaults()
	}

	fs.BoolVar(&r.options.JSON, "json", false, "Print the bill and notices as JSON lines")
	fs.BoolVar(&r.options.Checkout, "checkout", false, "Complete the sale after scanning the given barcodes")
	fs.StringVar(&r.options.Currency, "currency", r.options.Currency, "Currency symbol (CURRENCY)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	r.options.Codes = fs.Args()

	if r.options.Checkout && len(r.options.Codes) == 0 {
		return errors.New("--checkout needs at least one barcode")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	unsubscribe := r.controller.Subscribe(r.printNotice)
	defer unsubscribe()

	if len(r.options.Codes) > 0 {
		return r.runOneShot(ctx)
	}
	return r.runREPL(ctx)
}

func (r *Runner) runOneShot(ctx context.Context) error {
	r.logger.Info("one-shot sale", zap.Strings("codes", r.options.Codes), zap.Bool("checkout", r.options.Checkout))

	for _, code := range r.options.Codes {
		r.controller.SetScanInput(code)
		_, _ = r.controller.SubmitScan(ctx)
	}

	if r.options.Checkout {
		if _, err := r.controller.Checkout(ctx); err != nil {
			r.render()
			return fmt.Errorf("checkout: %w", err)
		}
	}
	r.render()
	return nil
}

func (r *Runner) runREPL(ctx context.Context) error {
	reader := bufio.NewScanner(r.in)
	form := &productForm{}

	if !r.options.JSON {
		fmt.Fprintln(r.out, banner)
	}
	r.render()

	for {
		if ctx.Err() != nil {
			r.logger.Info("register interrupted")
			return nil
		}
		r.prompt(form)
		if !reader.Scan() {
			return reader.Err()
		}
		if ctx.Err() != nil {
			r.logger.Info("register interrupted")
			return nil
		}
		raw := reader.Text()

		if key, ok := parseKey(raw); ok {
			wasOpen := r.controller.ModalOpen()
			r.controller.HandleKey(ctx, key)
			if open := r.controller.ModalOpen(); open != wasOpen {
				form.reset()
				if open && !r.options.JSON {
					fmt.Fprintln(r.out, formHint)
				}
			}
			r.render()
			continue
		}

		// exit also works with the form open, so it is never taken as a value.
		line := strings.TrimSpace(raw)
		if word := strings.ToLower(line); word == "exit" || word == "quit" {
			return nil
		}

		if r.controller.ModalOpen() {
			r.fillForm(ctx, form, line)
			continue
		}

		if cmd, ok := parseCommand(line); ok {
			r.runCommand(ctx, cmd)
			continue
		}

		if line == "" {
			continue
		}

		r.controller.SetScanInput(line)
		_, _ = r.controller.SubmitScan(ctx)
		r.render()
	}
}

func (r *Runner) runCommand(ctx context.Context, cmd command) {
	switch cmd.name {
	case "help":
		writeHelp(r.out)
	case "void":
		if err := r.controller.Void(); errors.Is(err, register.ErrCartEmpty) {
			fmt.Fprintln(r.out, "Cart is already empty.")
			return
		}
		r.render()
	case "sales":
		sales := r.controller.RecentSales(0)
		if r.options.JSON {
			_ = writeJSON(r.out, map[string]any{"sales": sales, "takings": r.controller.Takings().StringFixed(2)})
			return
		}
		fmt.Fprintf(r.out, "Sales this shift: %d\n", r.controller.SalesCount())
		writeSales(r.out, sales, r.controller.Takings(), r.options.Currency)
	case "close":
		sales, takings := r.controller.CloseShift()
		if r.options.JSON {
			_ = writeJSON(r.out, map[string]any{"closed": sales, "takings": takings.StringFixed(2)})
			return
		}
		writeSales(r.out, sales, takings, r.options.Currency)
		fmt.Fprintf(r.out, "Shift closed after %d sales.\n", len(sales))
	case "ask":
		r.ask(ctx, cmd.arg)
	default:
		fmt.Fprintf(r.out, "Unknown command /%s (try /help)\n", cmd.name)
	}
}

// fillForm feeds one line into the add-product draft. An empty line keeps the
// field's current value; once all fields are in, an empty line submits again.
func (r *Runner) fillForm(ctx context.Context, form *productForm, line string) {
	if field, ok := form.field(); ok {
		if line != "" {
			r.controller.UpdateDraft(field, line)
		}
		form.advance()
		if _, more := form.field(); more {
			return
		}
	} else if line != "" {
		fmt.Fprintln(r.out, "Press Enter to save again, or Esc to cancel.")
		return
	}

	if _, err := r.controller.SaveProduct(ctx); err != nil {
		form.rewind(err)
		return
	}
	form.reset()
	r.render()
}

func (r *Runner) ask(ctx context.Context, question string) {
	if question == "" {
		fmt.Fprintln(r.out, "Usage: /ask <question>")
		return
	}

	tools := toolbox{controller: r.controller, catalog: r.catalog, currency: r.options.Currency}
	ans, err := runAssistant(ctx, r.logger, r.assistant, tools, question)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		fmt.Fprintln(r.out, "Assistant is not configured: set LLM_API_KEY and LLM_MODEL.")
		return
	case err != nil:
		r.logger.Error("assistant failed", zap.Error(err))
		fmt.Fprintf(r.out, "[x] %v\n", err)
		return
	}

	r.logger.Info("assistant answer",
		zap.String("question", ans.Question),
		zap.Int("tool_calls", len(ans.ToolCalls)),
	)
	if r.options.JSON {
		_ = writeJSON(r.out, ans)
		return
	}
	if ans.Text == "" {
		fmt.Fprintln(r.out, "(empty answer)")
		return
	}
	fmt.Fprintln(r.out, ans.Text)
}

func (r *Runner) printNotice(notice register.Notice) {
	if r.options.JSON {
		_ = writeJSON(r.errOut, struct {
			Notice register.Notice `json:"notice"`
		}{notice})
		return
	}
	writeNotice(r.out, notice)
}

func (r *Runner) render() {
	snap := r.controller.Snapshot()
	logSnapshot(r.logger, snap)

	if r.options.JSON {
		_ = writeJSON(r.out, newJSONSnapshot(snap))
		return
	}
	writeBill(r.out, snap, r.options.Currency)
}

func (r *Runner) prompt(form *productForm) {
	if !r.interactive {
		return
	}
	if !r.controller.ModalOpen() {
		fmt.Fprint(r.out, "scan> ")
		return
	}

	field, ok := form.field()
	if !ok {
		fmt.Fprint(r.out, "Enter to save, Esc to cancel> ")
		return
	}
	label := fieldLabels[field]
	if field == register.FieldPrice {
		label = fmt.Sprintf("%s (%s)", label, r.options.Currency)
	}
	if current := r.controller.Snapshot().Draft.Get(field); current != "" {
		fmt.Fprintf(r.out, "%s [%s]: ", label, current)
		return
	}
	fmt.Fprintf(r.out, "%s: ", label)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
