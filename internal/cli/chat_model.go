package cli

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// chatMode tracks which interaction mode the chat is in.
type chatMode int

const (
	modePrompt chatMode = iota // normal chat input
	modeForm                   // huh form is active (/tz)
)

// chatModel is the bubbletea Model for the interactive chat.
type chatModel struct {
	input textinput.Model
	form  *huh.Form
	width int

	app      *App
	mode     chatMode
	tzChoice string
	quitting bool
}

// replyMsg carries the session's answer back into the update loop.
type replyMsg struct {
	text string
}

func newChatModel(app *App) chatModel {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.CharLimit = 500

	return chatModel{
		input: ti,
		app:   app,
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.Println(chatWelcome()),
	)
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(m.promptPrefix()) - 1
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width)
		}
		return m, nil

	case replyMsg:
		return m, tea.Println(renderReply(msg.text))

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m.updatePrompt(msg)
	}

	if m.mode == modeForm && m.form != nil {
		return m.updateForm(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) View() string {
	if m.quitting {
		return dim("Bye! Your schedule is saved.") + "\n"
	}
	if m.mode == modeForm && m.form != nil {
		return m.form.View()
	}
	return m.promptPrefix() + m.input.View()
}

func (m *chatModel) promptPrefix() string {
	if m.app.Session.AwaitingConfirmation() {
		return styleYellow.Render("confirm") + dim(" ❯ ")
	}
	return stylePurple.Render("you") + dim(" ❯ ")
}

func (m chatModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		input := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if input == "" {
			return m, nil
		}
		echo := tea.Println(stylePurple.Render("you") + dim(" ❯ ") + input)

		if strings.HasPrefix(input, "/") {
			model, cmd := m.handleSlashCommand(input)
			return model, tea.Batch(echo, cmd)
		}

		session := m.app.Session
		submit := func() tea.Msg {
			reply, err := session.Submit(context.Background(), input)
			if err != nil {
				return replyMsg{text: "Something went wrong: " + err.Error()}
			}
			return replyMsg{text: reply}
		}
		return m, tea.Batch(echo, submit)

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m chatModel) handleSlashCommand(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(input) {
	case "/quit", "/exit", "/q":
		m.quitting = true
		return m, tea.Quit

	case "/help":
		return m, tea.Println(dim(chatHelp))

	case "/tz":
		m.mode = modeForm
		m.tzChoice = m.app.Session.Timezone().String()
		m.form = timezoneForm(&m.tzChoice)
		return m, m.form.Init()

	default:
		return m, tea.Println(dim("Unknown command. Try /help, /tz, or /quit."))
	}
}

func (m chatModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.mode = modePrompt
		m.form = nil
		return m, tea.Println(dim("Cancelled."))
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.mode = modePrompt
		m.form = nil
		loc, err := time.LoadLocation(m.tzChoice)
		if err != nil {
			return m, tea.Batch(cmd, tea.Println(styleRed.Render("Couldn't load that timezone.")))
		}
		m.app.Session.SetTimezone(loc)
		return m, tea.Batch(cmd, tea.Println(dim("Timezone set to "+m.tzChoice+".")))
	}

	return m, cmd
}

// timezoneForm builds the /tz picker from a small set of common zones.
func timezoneForm(value *string) *huh.Form {
	zones := []string{
		"Local", "UTC",
		"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles",
		"Europe/London", "Europe/Berlin", "Europe/Paris",
		"Asia/Tokyo", "Asia/Shanghai", "Asia/Kolkata",
		"Australia/Sydney",
	}
	options := make([]huh.Option[string], 0, len(zones))
	for _, z := range zones {
		options = append(options, huh.NewOption(z, z))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Timezone").
				Options(options...).
				Value(value),
		),
	).WithTheme(chatHuhTheme()).WithShowHelp(false)
}

// chatHuhTheme restyles huh with the chat's Gruvbox palette.
func chatHuhTheme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.Title = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(colorYellow)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(colorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(colorFg)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(colorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(colorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(colorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(colorDim)
	return t
}

func chatWelcome() string {
	return styleGreen.Render("TimeBuddy") + " " + dim("— your scheduling sidekick") + "\n" +
		dim("Try \"add gym tomorrow at 7am for 1 hour\" or \"what's on today?\". /help for more.")
}

const chatHelp = `Commands:
  /tz     pick your timezone
  /help   show this help
  /quit   leave the chat
Everything else is plain English: add, move, delete, complete, or check tasks.`
