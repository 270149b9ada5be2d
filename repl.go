package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"recall/internal/store"
)

// attachment is pre-read file content merged into the next user message.
type attachment struct {
	name    string
	content string
}

// runREPL drives the interactive chat loop for one terminal.
func runREPL(ctx context.Context, app *App, sessionName string) error {
	sess, err := app.openSession(ctx, sessionName)
	if err != nil {
		return err
	}

	fmt.Printf("recall: session %q, model %s. Type /help for commands.\n", sess.Name, app.cfg.LLM.Model)

	var pending []attachment
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Printf("[%s] > ", sess.Name)
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" && len(pending) == 0 {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, next := app.handleCommand(ctx, line, sess, &pending)
			if quit {
				return nil
			}
			if next != nil {
				sess = next
			}
			continue
		}

		text := mergeAttachments(line, pending)
		pending = nil

		// Ctrl-C aborts the in-flight turn; the user message stays saved.
		tctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		out, err := app.manager.Turn(tctx, sess.ID, text)
		stop()
		if err != nil {
			fmt.Println(turnErrorMessage(err))
			continue
		}
		fmt.Printf("Assistant: %s\n", out)
	}
}

// handleCommand executes one slash command. It returns whether to quit and,
// on a session switch, the newly selected session.
func (a *App) handleCommand(ctx context.Context, line string, sess *store.Session, pending *[]attachment) (bool, *store.Session) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true, nil

	case "/help":
		fmt.Print(`/sessions            list sessions
/new <name>          create and switch to a session
/switch <name>       switch to a session
/rename <new-name>   rename the current session
/delete              delete the current session
/history             show the full stored history
/attach <path>       attach a text file to the next message
/quit                exit
`)

	case "/sessions":
		sessions, err := a.manager.Sessions(ctx)
		if err != nil {
			fmt.Println(turnErrorMessage(err))
			break
		}
		for _, s := range sessions {
			marker := " "
			if s.ID == sess.ID {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, s.Name)
		}

	case "/new":
		next, err := a.manager.CreateSession(ctx, arg)
		if err != nil {
			fmt.Println(turnErrorMessage(err))
			break
		}
		a.announceSession(next)
		return false, next

	case "/switch":
		next, err := a.resolveSession(ctx, arg)
		if err != nil {
			fmt.Println(turnErrorMessage(err))
			break
		}
		a.announceSession(next)
		return false, next

	case "/rename":
		newName, err := a.manager.RenameSession(ctx, sess.ID, arg)
		if err != nil {
			fmt.Println(turnErrorMessage(err))
			break
		}
		sess.Name = newName

	case "/delete":
		if err := a.manager.DeleteSession(ctx, sess.ID); err != nil {
			fmt.Println(turnErrorMessage(err))
			break
		}
		next, err := a.openSession(ctx, "default")
		if err != nil {
			fmt.Println(turnErrorMessage(err))
			break
		}
		a.announceSession(next)
		return false, next

	case "/history":
		messages, err := a.manager.History(ctx, sess.ID)
		if err != nil {
			fmt.Println(turnErrorMessage(err))
			break
		}
		for _, m := range messages {
			fmt.Printf("%s: %s\n", roleLabel(m.Role), m.Content)
		}

	case "/attach":
		att, err := readAttachment(arg)
		if err != nil {
			fmt.Println("Error reading file:", err)
			break
		}
		*pending = append(*pending, att)
		fmt.Printf("attached %s (%d bytes)\n", att.name, len(att.content))

	default:
		fmt.Printf("unknown command %s (try /help)\n", cmd)
	}
	return false, nil
}

// readAttachment loads a plain-text file for merging into the next user
// message. Binary files are rejected.
func readAttachment(path string) (attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return attachment{}, err
	}
	if !utf8.Valid(data) {
		return attachment{}, fmt.Errorf("cannot attach binary file %s", filepath.Base(path))
	}
	return attachment{name: filepath.Base(path), content: string(data)}, nil
}

func roleLabel(role string) string {
	if role == "" {
		return "Unknown"
	}
	return strings.ToUpper(role[:1]) + role[1:]
}

// mergeAttachments appends attached file contents to the user's text. The
// result is ordinary message text; nothing downstream treats it specially.
func mergeAttachments(text string, attachments []attachment) string {
	var sb strings.Builder
	sb.WriteString(text)
	for _, att := range attachments {
		fmt.Fprintf(&sb, "\n\n--- File: %s ---\n%s", att.name, att.content)
	}
	return sb.String()
}
