// Command briefly is a small terminal frontend for the API: submit an
// article for summarization, browse the history, or take a quiz.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mkarlsen/briefly/client"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "briefly server address")
	token := flag.String("token", os.Getenv("BRIEFLY_TOKEN"), "bearer token for the identity provider")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	api := &client.Client{Addr: *addr, Token: *token}
	ctx := context.Background()

	switch flag.Arg(0) {
	case "generate":
		runGenerate(ctx, api, flag.Args()[1:])
	case "latest":
		runLatest(ctx, api)
	case "history":
		runHistory(ctx, api)
	case "quiz":
		runQuiz(ctx, api, flag.Args()[1:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: briefly [flags] <command>

commands:
  generate -title <title> [file]   summarize an article (reads stdin without a file)
  latest                           show the most recent article
  history                          list your articles grouped by recency
  quiz <article-id>                take the five-question quiz for an article`)
}

func runGenerate(ctx context.Context, api *client.Client, args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	title := fs.String("title", "", "article title")
	fs.Parse(args)

	if *title == "" {
		log.Fatal("generate: -title is required")
	}

	var content []byte
	var err error
	if fs.NArg() > 0 {
		content, err = os.ReadFile(fs.Arg(0))
	} else {
		content, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Fatalf("generate: failed to read article: %v", err)
	}

	article, err := api.CreateArticle(ctx, *title, string(content))
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	fmt.Printf("%s\n\n%s\n", article.Title, article.Summary)
}

func runLatest(ctx context.Context, api *client.Client) {
	article, err := api.MostRecentArticle(ctx)
	if err != nil {
		log.Fatalf("latest: %v", err)
	}
	if article == nil {
		fmt.Println("No articles yet.")
		return
	}
	fmt.Printf("%s (%s)\n\n%s\n", article.Title, article.CreatedAt.Format("2006-01-02"), article.Summary)
}

func runHistory(ctx context.Context, api *client.Client) {
	view := client.NewHistoryView(api)
	view.Load(ctx)

	if view.State == client.StateError {
		log.Fatalf("history: %s", view.Err)
	}

	if len(view.Articles) == 0 {
		fmt.Println("No articles yet. Create your first article to get started!")
		return
	}

	for _, group := range view.Groups(time.Now()) {
		fmt.Println(group.Label)
		for _, article := range group.Articles {
			fmt.Printf("  %s  %s\n", article.ID, article.Title)
		}
	}
}

func runQuiz(ctx context.Context, api *client.Client, args []string) {
	if len(args) < 1 {
		log.Fatal("quiz: article id is required")
	}

	flow := client.NewQuizFlow(api, args[0])
	flow.Load(ctx)
	if flow.Err != "" {
		log.Fatalf("quiz: %s", flow.Err)
	}

	reader := bufio.NewReader(os.Stdin)
	correct := 0

	for flow.Step == client.StepQuiz {
		quiz := flow.Current()
		if quiz == nil {
			break
		}

		fmt.Printf("\nQuestion %d/%d: %s\n", flow.Index+1, client.TotalQuestions, quiz.Question)
		for i, option := range quiz.Options {
			fmt.Printf("  %d) %s\n", i+1, option)
		}
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			log.Fatalf("quiz: %v", err)
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || choice < 1 || choice > len(quiz.Options) {
			fmt.Println("Pick an option number.")
			continue
		}

		if quiz.Options[choice-1] == quiz.Answer {
			correct++
			fmt.Println("Correct!")
		} else {
			fmt.Printf("Wrong. The answer was: %s\n", quiz.Answer)
		}

		flow.Next()
	}

	fmt.Printf("\nDone. %d/%d correct.\n", correct, client.TotalQuestions)
}
