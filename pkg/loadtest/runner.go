package loadtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RequestFunc 单次请求，返回 error 视为失败
type RequestFunc func(ctx context.Context) error

// Runner 固定并发、固定时长地循环执行请求
type Runner struct {
	name        string
	concurrency int
	duration    time.Duration
	requests    []RequestFunc

	mu      sync.Mutex
	samples []time.Duration
	failed  int64
}

// NewRunner 创建压测
func NewRunner(name string, concurrency int, duration time.Duration) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{name: name, concurrency: concurrency, duration: duration}
}

// AddRequest 添加请求函数，按添加顺序轮流执行
func (r *Runner) AddRequest(request RequestFunc) {
	r.requests = append(r.requests, request)
}

// Run blocks until the duration elapses or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) *Result {
	ctx, cancel := context.WithTimeout(ctx, r.duration)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < r.concurrency; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			r.worker(ctx, offset)
		}(i)
	}
	wg.Wait()

	return r.result(time.Since(start))
}

func (r *Runner) worker(ctx context.Context, offset int) {
	if len(r.requests) == 0 {
		return
	}
	for i := offset; ctx.Err() == nil; i++ {
		request := r.requests[i%len(r.requests)]

		start := time.Now()
		err := request(ctx)
		elapsed := time.Since(start)

		// 截止时刻被打断的请求不计入
		if ctx.Err() != nil {
			return
		}
		r.record(elapsed, err)
	}
}

func (r *Runner) record(d time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, d)
	if err != nil {
		r.failed++
	}
}

func (r *Runner) result(elapsed time.Duration) *Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := &Result{
		TestName:      r.name,
		Concurrency:   r.concurrency,
		Duration:      elapsed,
		TotalRequests: int64(len(r.samples)),
		Failed:        r.failed,
	}
	if res.TotalRequests == 0 {
		return res
	}

	sorted := make([]time.Duration, len(r.samples))
	copy(sorted, r.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, d := range sorted {
		total += d
	}

	res.QPS = float64(res.TotalRequests) / elapsed.Seconds()
	res.ErrorRate = float64(res.Failed) / float64(res.TotalRequests)
	res.Average = total / time.Duration(len(sorted))
	res.Min = sorted[0]
	res.Max = sorted[len(sorted)-1]
	res.P50 = Percentile(sorted, 0.50)
	res.P95 = Percentile(sorted, 0.95)
	res.P99 = Percentile(sorted, 0.99)
	return res
}

// Percentile expects sorted input.
func Percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

// Result 压测结果
type Result struct {
	TestName      string        `json:"test_name"`
	Concurrency   int           `json:"concurrency"`
	Duration      time.Duration `json:"duration"`
	TotalRequests int64         `json:"total_requests"`
	Failed        int64         `json:"failed"`
	QPS           float64       `json:"qps"`
	ErrorRate     float64       `json:"error_rate"`
	Average       time.Duration `json:"average"`
	Min           time.Duration `json:"min"`
	Max           time.Duration `json:"max"`
	P50           time.Duration `json:"p50"`
	P95           time.Duration `json:"p95"`
	P99           time.Duration `json:"p99"`
}

// Log 输出结果
func (r *Result) Log(log *zap.Logger) {
	log.Info("load test finished",
		zap.String("test", r.TestName),
		zap.Int("concurrency", r.Concurrency),
		zap.Duration("duration", r.Duration),
		zap.Int64("requests", r.TotalRequests),
		zap.Int64("failed", r.Failed),
		zap.Float64("qps", r.QPS),
		zap.Float64("error_rate", r.ErrorRate),
		zap.Duration("avg", r.Average),
		zap.Duration("p50", r.P50),
		zap.Duration("p95", r.P95),
		zap.Duration("p99", r.P99),
	)
}

// StressTest 逐步提高并发，直到出现瓶颈或达到上限
type StressTest struct {
	MaxConcurrency int
	StepSize       int
	StepDuration   time.Duration
	// 超过任一阈值即停止
	MaxErrorRate float64
	MaxP95       time.Duration
	Requests     []RequestFunc
}

// Run 返回每一级并发的结果
func (st StressTest) Run(ctx context.Context, log *zap.Logger) []*Result {
	var results []*Result
	for c := st.StepSize; c <= st.MaxConcurrency && ctx.Err() == nil; c += st.StepSize {
		runner := NewRunner("stress", c, st.StepDuration)
		for _, req := range st.Requests {
			runner.AddRequest(req)
		}

		result := runner.Run(ctx)
		result.Log(log)
		results = append(results, result)

		if result.ErrorRate > st.MaxErrorRate || (st.MaxP95 > 0 && result.P95 > st.MaxP95) {
			log.Warn("bottleneck detected", zap.Int("concurrency", c))
			break
		}
	}
	return results
}
