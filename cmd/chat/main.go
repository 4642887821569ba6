// Command chat is a terminal client for the EcoEats server. It drives the
// same session protocol the web client uses: lazy conversation creation,
// optimistic transcript updates, and attachment staging.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"ecoeats-server/internal/client"
	"ecoeats-server/internal/domain/attachment"
	"ecoeats-server/internal/domain/chat"
	"ecoeats-server/internal/domain/conversation"
)

type terminalNotifier struct{}

func (terminalNotifier) Error(message string)   { fmt.Println("! " + message) }
func (terminalNotifier) Success(message string) { fmt.Println("* " + message) }

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "EcoEats server base URL")
	userID := flag.String("user", "", "user id sent as X-User-ID when auth is disabled")
	token := flag.String("token", "", "bearer token for an auth-enabled server")
	flag.Parse()

	var opts []client.Option
	if *token != "" {
		opts = append(opts, client.WithAuthToken(*token))
	}
	if *userID != "" {
		opts = append(opts, client.WithUserID(*userID))
	}
	api := client.New(*serverURL, opts...)

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	mgr := chat.NewManager(api, api, terminalNotifier{}, log)

	ctx := context.Background()
	if err := mgr.RefreshConversations(ctx); err != nil {
		fmt.Println("! could not reach the server:", err)
	}

	fmt.Println("EcoEats chat. Type a message, or /help for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" && mgr.Pending().Len() == 0 {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runCommand(ctx, mgr, line); quit {
				return
			}
			continue
		}

		if err := mgr.SendTurn(ctx, line); err != nil {
			fmt.Println("!", err)
			continue
		}
		printLastReply(mgr)
	}
}

func runCommand(ctx context.Context, mgr *chat.Manager, line string) bool {
	fields := strings.Fields(line)
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "/help":
		fmt.Println(`/new               start a new chat
/list              list conversations
/open <id>         open a conversation
/delete <id>       delete a conversation
/attach <path>     stage a file for the next message
/attachments       show staged files
/clear             drop staged files
/quit              exit`)
	case "/new":
		mgr.StartNewChat()
		fmt.Println("* new chat")
	case "/list":
		if err := mgr.RefreshConversations(ctx); err != nil {
			fmt.Println("! list failed:", err)
			break
		}
		for _, conv := range mgr.Conversations() {
			marker := " "
			if conv.PublicID == mgr.ActiveConversationID() {
				marker = ">"
			}
			fmt.Printf("%s %s  %s\n", marker, conv.PublicID, conv.Title)
		}
	case "/open":
		if arg == "" {
			fmt.Println("! usage: /open <id>")
			break
		}
		if err := mgr.SelectConversation(ctx, arg); err != nil {
			fmt.Println("! open failed:", err)
			break
		}
		for _, msg := range mgr.Messages() {
			fmt.Printf("[%s] %s\n", msg.Role, msg.Content)
		}
	case "/delete":
		if arg == "" {
			fmt.Println("! usage: /delete <id>")
			break
		}
		mgr.DeleteConversation(ctx, arg)
	case "/attach":
		if arg == "" {
			fmt.Println("! usage: /attach <path>")
			break
		}
		stageFile(mgr, arg)
	case "/attachments":
		for i, a := range mgr.Pending().Items() {
			fmt.Printf("%d. %s (%s, %d bytes)\n", i+1, a.Filename, a.Category, a.Size)
		}
	case "/clear":
		mgr.Pending().Clear()
		fmt.Println("* attachments cleared")
	case "/quit", "/exit":
		return true
	default:
		fmt.Println("! unknown command, try /help")
	}
	return false
}

func stageFile(mgr *chat.Manager, path string) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Println("! cannot read file:", err)
		return
	}

	warnings := mgr.Pending().Add(attachment.Attachment{
		Filename: filepath.Base(path),
		MIMEType: mime.TypeByExtension(filepath.Ext(path)),
		Size:     info.Size(),
	})
	for _, w := range warnings {
		fmt.Println("!", w.String())
	}
	if len(warnings) == 0 {
		fmt.Printf("* staged %s (%d pending)\n", filepath.Base(path), mgr.Pending().Len())
	}
}

func printLastReply(mgr *chat.Manager) {
	messages := mgr.Messages()
	if len(messages) == 0 {
		return
	}
	last := messages[len(messages)-1]
	if last.Role == conversation.RoleAssistant {
		fmt.Println(last.Content)
	}
}
