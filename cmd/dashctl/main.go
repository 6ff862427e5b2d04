// Command dashctl queries the dashboard API from a terminal.
//
//	dashctl [-server URL] [-token T] <command> [flags]
//
// Commands:
//
//	login -user NAME            prompt for a password and print a bearer token
//	me                          show the authenticated user
//	dashboard [filter flags]    job-seeker dashboard for a filter
//	trends -timeframe 3y        HR trend analysis (hr token)
//	skill-gap -have a,b         HR skill-gap analysis (hr token)
//	wage CODE                   BLS wage for an occupation code
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/analytics"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/client"
)

// readPassword is replaced in tests so they never touch the terminal.
var readPassword = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }

var errUsage = errors.New("usage: dashctl [-server URL] [-token T] login|me|dashboard|trends|skill-gap|wage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "dashctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("dashctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	server := fs.String("server", envOr("DASHCTL_SERVER", "http://localhost:8080"), "dashboard API base URL")
	token := fs.String("token", os.Getenv("DASHCTL_TOKEN"), "bearer token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	c := client.New(*server)
	c.SetToken(*token)
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	switch cmd {
	case "login":
		return login(ctx, c, rest, stdout, stderr)
	case "me":
		u, err := c.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(stdout, u)
	case "dashboard":
		sub := flag.NewFlagSet("dashboard", flag.ContinueOnError)
		sub.SetOutput(stderr)
		f := filterFlags(sub)
		if err := sub.Parse(rest); err != nil {
			return err
		}
		d, err := c.Dashboard(ctx, *f)
		if err != nil {
			return err
		}
		return printJSON(stdout, d)
	case "trends":
		sub := flag.NewFlagSet("trends", flag.ContinueOnError)
		sub.SetOutput(stderr)
		timeframe := sub.String("timeframe", "all", "1y, 3y, 5y or all")
		f := filterFlags(sub)
		if err := sub.Parse(rest); err != nil {
			return err
		}
		t, err := c.TrendAnalysis(ctx, *timeframe, *f)
		if err != nil {
			return err
		}
		return printJSON(stdout, t)
	case "skill-gap":
		sub := flag.NewFlagSet("skill-gap", flag.ContinueOnError)
		sub.SetOutput(stderr)
		have := sub.String("have", "", "comma separated skills the team already has")
		f := filterFlags(sub)
		if err := sub.Parse(rest); err != nil {
			return err
		}
		var skills []string
		if *have != "" {
			skills = strings.Split(*have, ",")
		}
		g, err := c.SkillGapAnalysis(ctx, *f, skills)
		if err != nil {
			return err
		}
		return printJSON(stdout, g)
	case "wage":
		if len(rest) != 1 {
			return errors.New("usage: dashctl wage CODE")
		}
		w, err := c.Wage(ctx, rest[0])
		if err != nil {
			return err
		}
		return printJSON(stdout, w)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

func login(ctx context.Context, c *client.Client, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(stderr)
	user := fs.String("user", "", "username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return errors.New("login: -user is required")
	}

	fmt.Fprint(stderr, "Password: ")
	pw, err := readPassword()
	fmt.Fprintln(stderr)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	defer clear(pw)

	resp, err := c.Login(ctx, *user, string(pw))
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr, "logged in as %s (%s)\n", resp.User.Username, resp.User.Role)
	fmt.Fprintln(stdout, resp.Token)
	return nil
}

// filterFlags registers the dashboard filter flags on fs.
func filterFlags(fs *flag.FlagSet) *analytics.Filter {
	f := &analytics.Filter{}
	fs.StringVar(&f.Specialty, "specialty", "", "specialty key")
	fs.StringVar(&f.Remote, "remote", "", "remote or onsite")
	fs.StringVar(&f.EmploymentType, "employment-type", "", "employment type")
	fs.StringVar(&f.Region, "region", "", "region")
	fs.StringVar(&f.State, "state", "", "state code or name")
	fs.StringVar(&f.ExperienceLevel, "experience", "", "experience level")
	fs.Float64Var(&f.MinSalary, "min-salary", 0, "minimum average salary")
	fs.Float64Var(&f.MaxSalary, "max-salary", 0, "maximum average salary")
	return f
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
