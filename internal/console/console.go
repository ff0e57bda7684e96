// Package console is a line-oriented front end over the view controllers and the router.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	shellwords "github.com/caarlos0/go-shellwords"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/yogastudio/yoga/internal/router"
	"github.com/yogastudio/yoga/internal/views"
)

// Prompt is printed before every command.
const Prompt = "yoga> "

// Options tune the console output.
type Options struct {
	Color  bool
	Prompt bool
	// Gatherer backs the stats command; stats is refused when nil.
	Gatherer prometheus.Gatherer
}

// Console dispatches commands read from an io.Reader and writes screens to an io.Writer.
type Console struct {
	log    *log.Entry
	deps   views.Deps
	router *router.Router
	opts   Options

	outMu    sync.Mutex
	out      io.Writer
	inColor  *color.Color
	outColor *color.Color

	login    *views.Login
	register *views.Register
	app      *views.App
	list     *views.List
	detail   *views.Detail
	form     *views.Form
	account  *views.Account
	commands map[string]command
}

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

// New returns a console. deps.Nav and deps.Notify are replaced by the router and the console.
func New(deps views.Deps, r *router.Router, out io.Writer, opts Options) *Console {
	c := &Console{
		log:    log.WithField("component", "console"),
		router: r,
		opts:   opts,
		out:    out,
		// Banner colors.
		inColor:  color.New(color.FgGreen, color.Bold),
		outColor: color.New(color.FgYellow, color.Bold),
	}
	if !opts.Color {
		c.inColor.DisableColor()
		c.outColor.DisableColor()
	}
	deps.Nav = r
	deps.Notify = views.NotifierFunc(c.notify)
	c.deps = deps

	c.login = views.NewLogin(deps)
	c.register = views.NewRegister(deps)
	c.app = views.NewApp(deps)
	c.list = views.NewList(deps)
	c.detail = views.NewDetail(deps)
	c.form = views.NewForm(deps)
	c.account = views.NewAccount(deps)
	c.commands = c.commandTable()
	return c
}

// Run starts the banner watcher and processes commands until quit, EOF or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The current state is printed before anything else.
	changes := c.deps.Store.Changes(ctx)
	if loggedIn, ok := <-changes; ok {
		c.banner(loggedIn)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.watch(changes)
	}()

	c.render(ctx, c.router.Navigate(router.RootPath))

	scanner := bufio.NewScanner(in)
	for {
		if c.opts.Prompt {
			c.printf("%s", Prompt)
		}
		if !scanner.Scan() {
			return errors.Wrap(scanner.Err(), "reading commands")
		}
		quit, err := c.Exec(ctx, scanner.Text())
		if err != nil {
			c.printf("error: %v\n", err)
		}
		if quit || ctx.Err() != nil {
			return nil
		}
	}
}

// watch prints a banner for every authentication transition until changes is closed.
func (c *Console) watch(changes <-chan bool) {
	for loggedIn := range changes {
		c.banner(loggedIn)
	}
}

func (c *Console) banner(loggedIn bool) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	if loggedIn {
		_, _ = c.inColor.Fprintln(c.out, "*** logged in ***")
	} else {
		_, _ = c.outColor.Fprintln(c.out, "*** logged out ***")
	}
}

// Exec runs a single command line. It reports whether the console should stop.
func (c *Console) Exec(ctx context.Context, line string) (bool, error) {
	words, err := shellwords.Parse(line)
	if err != nil {
		return false, errors.Wrap(err, "parsing command")
	}
	if len(words) == 0 {
		return false, nil
	}
	name, args := words[0], words[1:]
	if name == "quit" || name == "exit" {
		return true, nil
	}
	cmd, ok := c.commands[name]
	if !ok {
		return false, errors.Errorf("unknown command %q, try help", name)
	}
	c.log.WithField("command", name).Debug("executing")
	return false, cmd.run(ctx, args)
}

func (c *Console) notify(msg string) {
	c.printf("» %s\n", msg)
}

func (c *Console) printf(format string, args ...interface{}) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Console) help(context.Context, []string) error {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		cmd := c.commands[name]
		fmt.Fprintf(&b, "  %-45s %s\n", strings.TrimSpace(name+" "+cmd.usage), cmd.help)
	}
	fmt.Fprintf(&b, "  %-45s %s\n", "quit", "leave the console")
	c.printf("%s", b.String())
	return nil
}
