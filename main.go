package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/RichardoC/support-chat/internal/chatclient"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		serverURL string
		timeout   time.Duration
		opts      chatclient.Options
	)

	cmd := &cobra.Command{
		Use:          "support-chat",
		Short:        "Chat with the support relay from a terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := chatclient.New(chatclient.NewHTTPRelay(serverURL, timeout), opts)
			client.Open()
			return chat(cmd.Context(), client, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&serverURL, "url", "http://localhost:8100", "relay server base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-message timeout, 0 waits indefinitely")
	cmd.Flags().BoolVar(&opts.ShowEmojiPicker, "emoji", true, "enable the /emoji commands")
	return cmd
}

// chat reads lines from in until EOF or /quit. Plain lines are sent;
// "/emojis" lists the picker and "/emoji N" appends the Nth emoji to the
// next message.
func chat(ctx context.Context, client *chatclient.Client, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Type a message and press Enter. /quit exits.")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "/quit":
			return nil

		case line == "/emojis":
			emojis := client.Emojis()
			if len(emojis) == 0 {
				fmt.Fprintln(out, "emoji picker is disabled")
				continue
			}
			for i, e := range emojis {
				fmt.Fprintf(out, "%d %s  ", i+1, e)
			}
			fmt.Fprintln(out)

		case strings.HasPrefix(line, "/emoji "):
			emojis := client.Emojis()
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "/emoji ")))
			if err != nil || n < 1 || n > len(emojis) {
				fmt.Fprintln(out, "usage: /emoji N (see /emojis)")
				continue
			}
			if err := client.InsertEmoji(emojis[n-1]); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			fmt.Fprintf(out, "> %s\n", client.Input())

		default:
			client.SetInput(client.Input() + line)
			if !client.Send(ctx) {
				continue
			}
			msgs := client.Messages(ctx)
			fmt.Fprintf(out, "Bot: %s\n", msgs[len(msgs)-1].Content)
		}
	}
	return scanner.Err()
}
