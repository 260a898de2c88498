// Package resilience provides reliability and fault tolerance patterns for the application.
//
// The package supports:
//   - Circuit breakers for the news provider and the database
//   - Retry logic with exponential backoff and jitter for startup dependencies
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.DefaultConfig("news-provider"))
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callProvider()
//	})
//
//	err := retry.WithBackoff(ctx, retry.DBStartupConfig(), func() error {
//	    return db.PingContext(ctx)
//	})
package resilience
