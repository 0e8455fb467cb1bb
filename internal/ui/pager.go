package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/noborus/ov/oviewer"

	"fetchwidgets/internal/domain"
)

// errNoProgram is returned when the pager is used before SetProgram
var errNoProgram = errors.New("program not set")

// pagerWidth is the wrap width for post bodies shown in the pager
const pagerWidth = 80

// Pager shows long text in the ov pager, handing the terminal over while
// it runs
type Pager struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPager creates a pager
func NewPager() *Pager {
	return &Pager{}
}

// SetProgram sets the program reference for terminal management
func (p *Pager) SetProgram(program *tea.Program) {
	p.program = program
}

// ShowPost shows a post's full title and body
func (p *Pager) ShowPost(item domain.ListItem) error {
	return p.show(PostContent(item))
}

func (p *Pager) show(content string) error {
	if p.program == nil {
		return errNoProgram
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Give ov time to leave the alternate screen before we take it back
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to open pager: %w", err)
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// PostContent formats a post for the pager
func PostContent(item domain.ListItem) string {
	title := item.Title
	if title == "" {
		title = "(untitled)"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("#%d  %s\n", item.ID, title))
	b.WriteString(strings.Repeat("─", min(pagerWidth, ansi.StringWidth(title)+len(fmt.Sprint(item.ID))+3)))
	b.WriteString("\n\n")
	b.WriteString(ansi.Wordwrap(item.Body, pagerWidth, " -"))
	b.WriteString("\n")
	return b.String()
}
