package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aknur111/blog-web-site/pkg/loadtest"
	"github.com/aknur111/blog-web-site/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:8080", "blog server base URL")
		scenario    = flag.String("scenario", "read", "read | write | stress | reactions")
		concurrency = flag.Int("c", 50, "concurrent workers")
		duration    = flag.Duration("d", 30*time.Second, "test duration (per step for stress)")
		users       = flag.Int("users", 500, "users for the reactions scenario")
	)
	flag.Parse()

	if err := logger.InitLogger("dev", false); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := loadtest.NewClient(*baseURL)
	if err := client.Health(ctx); err != nil {
		log.Fatal("server is not healthy", zap.String("url", *baseURL), zap.Error(err))
	}

	var err error
	switch *scenario {
	case "read":
		err = runRead(ctx, client, *concurrency, *duration)
	case "write":
		err = runWrite(ctx, client, *concurrency, *duration)
	case "stress":
		err = runStress(ctx, client, *concurrency, *duration)
	case "reactions":
		err = runReactionStorm(ctx, client, *users)
	default:
		err = fmt.Errorf("unknown scenario %q", *scenario)
	}
	if err != nil {
		log.Fatal("load test failed", zap.String("scenario", *scenario), zap.Error(err))
	}
}

// setup 注册一个作者并发布一篇文章
func setup(ctx context.Context, client *loadtest.Client) (token, postID string, err error) {
	name := "load-" + uuid.NewString()[:8]
	token, err = client.Register(ctx, name, name+"@example.com")
	if err != nil {
		return "", "", fmt.Errorf("register: %w", err)
	}
	postID, err = client.CreatePost(ctx, token, "load test post", []string{"loadtest", "go"})
	if err != nil {
		return "", "", fmt.Errorf("create post: %w", err)
	}
	return token, postID, nil
}

func runRead(ctx context.Context, client *loadtest.Client, concurrency int, d time.Duration) error {
	runner := loadtest.NewRunner("read", concurrency, d)
	runner.AddRequest(client.ListPostsRequest(""))
	runner.AddRequest(client.ListPostsRequest("go"))
	runner.AddRequest(client.TopTagsRequest())
	runner.AddRequest(client.HealthRequest())

	runner.Run(ctx).Log(logger.Log)
	return nil
}

func runWrite(ctx context.Context, client *loadtest.Client, concurrency int, d time.Duration) error {
	token, postID, err := setup(ctx, client)
	if err != nil {
		return err
	}

	runner := loadtest.NewRunner("write", concurrency, d)
	runner.AddRequest(client.ViewRequest(token, postID))
	runner.AddRequest(client.ReactRequest(token, postID, "like"))
	runner.AddRequest(client.ReactRequest(token, postID, "love"))

	runner.Run(ctx).Log(logger.Log)
	return nil
}

func runStress(ctx context.Context, client *loadtest.Client, maxConcurrency int, step time.Duration) error {
	st := loadtest.StressTest{
		MaxConcurrency: maxConcurrency,
		StepSize:       max(1, maxConcurrency/5),
		StepDuration:   step,
		MaxErrorRate:   0.05,
		MaxP95:         time.Second,
		Requests: []loadtest.RequestFunc{
			client.ListPostsRequest(""),
			client.TopTagsRequest(),
		},
	}
	st.Run(ctx, logger.Log)
	return nil
}

// runReactionStorm 大量用户同时对同一篇文章反应，每人两次
// 最终计数之和必须等于用户数
func runReactionStorm(ctx context.Context, client *loadtest.Client, users int) error {
	_, postID, err := setup(ctx, client)
	if err != nil {
		return err
	}

	tokens := make([]string, 0, users)
	for i := 0; i < users; i++ {
		name := fmt.Sprintf("storm-%d-%s", i, uuid.NewString()[:8])
		token, err := client.Register(ctx, name, name+"@example.com")
		if err != nil {
			return fmt.Errorf("register user %d: %w", i, err)
		}
		tokens = append(tokens, token)
	}

	logger.Log.Info("reaction storm started", zap.Int("users", users), zap.String("post_id", postID))

	kinds := []string{"like", "dislike", "love"}
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	start := time.Now()
	for i, token := range tokens {
		for round := 0; round < 2; round++ {
			wg.Add(1)
			go func(token, kind string) {
				defer wg.Done()
				if err := client.ReactRequest(token, postID, kind)(ctx); err != nil {
					mu.Lock()
					failed++
					mu.Unlock()
				}
			}(token, kinds[(i+round)%len(kinds)])
		}
	}
	wg.Wait()
	elapsed := time.Since(start)

	counts, err := client.ReactionCounts(ctx, postID)
	if err != nil {
		return fmt.Errorf("reaction counts: %w", err)
	}
	var total int64
	for _, n := range counts {
		total += n
	}

	logger.Log.Info("reaction storm finished",
		zap.Duration("elapsed", elapsed),
		zap.Int("requests", users*2),
		zap.Int("failed", failed),
		zap.Any("counts", counts),
		zap.Int64("total", total),
	)

	if total != int64(users) {
		return fmt.Errorf("expected %d reactions (one per user), got %d", users, total)
	}
	return nil
}
