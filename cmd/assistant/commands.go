package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaonbazar/gaonbazar-backend/internal/assistant"
)

var exitWords = map[string]struct{}{"exit": {}, "quit": {}, "bye": {}}

type rootOptions struct {
	rulesPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "assistant",
		Short:         "Ask the Gaon Bazar farmer assistant",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.rulesPath, "rules", "", "path to a rules YAML file (defaults to the built-in knowledge base)")

	root.AddCommand(
		newAskCmd(opts),
		newChatCmd(opts),
		newTopicsCmd(opts),
	)
	return root
}

func (o *rootOptions) engine() (*assistant.Engine, error) {
	if o.rulesPath == "" {
		return assistant.Default()
	}
	return assistant.LoadRulesFile(o.rulesPath)
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var showTopic bool
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Answer one question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			match := engine.Match(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if showTopic {
				fmt.Fprintf(out, "[%s]\n", match.Topic)
			}
			fmt.Fprintln(out, match.Response)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTopic, "topic", false, "print the matched topic before the answer")
	return cmd
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			return chat(assistant.NewConversation(engine), engine, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func chat(conv *assistant.Conversation, engine *assistant.Engine, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, engine.Welcome())
	for i, q := range engine.QuickQuestions() {
		fmt.Fprintf(out, "  %d. %s\n", i+1, q)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if _, done := exitWords[strings.ToLower(line)]; done {
			return nil
		}
		_, reply, ok := conv.Ask(line)
		if !ok {
			continue
		}
		fmt.Fprintln(out, reply.Text)
	}
}

func newTopicsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List the topics in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			for _, topic := range engine.Topics() {
				fmt.Fprintln(cmd.OutOrStdout(), topic)
			}
			return nil
		},
	}
}
