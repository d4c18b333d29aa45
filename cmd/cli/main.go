package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amirasaad/ledger/infra/initializer"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/iban"
	"github.com/amirasaad/ledger/pkg/middleware"
	"github.com/amirasaad/ledger/pkg/money"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/term"
)

const usage = `Usage: cli <command> [arguments]
Commands:
  accrue                 credit one day of interest to savings accounts
  iban validate <iban>   check an IBAN's structure and checksums
  iban generate [count]  allocate unused IBANs against the configured store
  token <user-id>        sign a development JWT for user-id`

type printer struct {
	out, errOut io.Writer
	ok, fail    *color.Color
	label       *color.Color
	width       int
}

func newPrinter(out, errOut io.Writer) *printer {
	p := &printer{
		out:    out,
		errOut: errOut,
		ok:     color.New(color.FgGreen, color.Bold),
		fail:   color.New(color.FgRed, color.Bold),
		label:  color.New(color.FgCyan),
		width:  60,
	}
	f, isFile := out.(*os.File)
	if !isFile || !term.IsTerminal(int(f.Fd())) {
		for _, c := range []*color.Color{p.ok, p.fail, p.label} {
			c.DisableColor()
		}
		return p
	}
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 && w < p.width {
		p.width = w
	}
	return p
}

func (p *printer) rule() {
	_, _ = fmt.Fprintln(p.out, strings.Repeat("─", p.width))
}

func (p *printer) failf(format string, args ...any) int {
	_, _ = p.fail.Fprintf(p.errOut, "✗ "+format+"\n", args...)
	return 1
}

func main() {
	os.Exit(runCLI(context.Background(), os.Args[1:], newPrinter(os.Stdout, os.Stderr)))
}

func runCLI(ctx context.Context, args []string, p *printer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(p.out, usage)
		return 2
	}
	switch args[0] {
	case "accrue":
		return accrue(ctx, p)
	case "iban":
		if len(args) < 2 {
			_, _ = fmt.Fprintln(p.out, usage)
			return 2
		}
		switch args[1] {
		case "validate":
			if len(args) < 3 {
				return p.failf("Usage: iban validate <iban>")
			}
			return validateIBAN(strings.Join(args[2:], ""), p)
		case "generate":
			count := 1
			if len(args) > 2 {
				n, err := strconv.Atoi(args[2])
				if err != nil || n < 1 {
					return p.failf("Invalid count: %s", args[2])
				}
				count = n
			}
			return generateIBAN(ctx, count, p)
		}
	case "token":
		if len(args) < 2 {
			return p.failf("Usage: token <user-id>")
		}
		return issueToken(args[1], p)
	}
	_, _ = fmt.Fprintln(p.out, usage)
	return 2
}

func loadApp() (*app.App, error) {
	cfg, err := config.Load(".env")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	return app.New(deps, cfg), nil
}

func accrue(ctx context.Context, p *printer) int {
	a, err := loadApp()
	if err != nil {
		return p.failf("%v", err)
	}
	credited, err := a.InterestService.Run(ctx)
	p.rule()
	for _, c := range credited {
		_, _ = fmt.Fprintf(p.out, "%s  %s\n", p.label.Sprint(c.AccountID), money.Format(c.Amount))
	}
	p.rule()
	if err != nil {
		return p.failf("Interest run stopped after %d credits: %v", len(credited), err)
	}
	_, _ = p.ok.Fprintf(p.out, "✓ Interest credited to %d accounts\n", len(credited))
	return 0
}

func validateIBAN(raw string, p *printer) int {
	if err := iban.Validate(raw); err != nil {
		return p.failf("%s: %v", raw, err)
	}
	_, _ = p.ok.Fprintf(p.out, "✓ %s is valid\n", iban.Format(raw))
	return 0
}

func generateIBAN(ctx context.Context, count int, p *printer) int {
	a, err := loadApp()
	if err != nil {
		return p.failf("%v", err)
	}
	accounts, err := a.Deps.Uow.AccountRepository()
	if err != nil {
		return p.failf("%v", err)
	}
	for range count {
		number, err := a.Deps.Generator.Generate(ctx, accounts)
		if err != nil {
			return p.failf("%v", err)
		}
		_, _ = fmt.Fprintf(p.out, "%s  %s\n", number, p.label.Sprint(iban.Format(number)))
	}
	return 0
}

func issueToken(raw string, p *printer) int {
	userID, err := uuid.Parse(raw)
	if err != nil {
		return p.failf("Invalid user id: %s", raw)
	}
	cfg, err := config.Load(".env")
	if err != nil {
		return p.failf("failed to load configuration: %v", err)
	}
	token, err := middleware.IssueToken(cfg.Auth.Jwt, userID, time.Now())
	if err != nil {
		return p.failf("%v", err)
	}
	_, _ = fmt.Fprintln(p.out, token)
	return 0
}
