// Package redis connects to Redis for the workflow event publisher.
//
// Config is read from REDIS_URL, REDIS_RETRY_ATTEMPTS, REDIS_RETRY_INTERVAL
// and REDIS_CONNECT_TIMEOUT through LoadConfig. Connect pings the server with
// retries so a process can start before Redis is up, and Healthcheck adapts a
// client into a liveness probe.
//
//	cfg, err := redis.LoadConfig()
//	if err != nil {
//	    return err
//	}
//	client, err := redis.Connect(ctx, cfg, redis.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	pub := listener.NewRedisPublisher(client, listener.RedisConfig{ChannelPrefix: "workflow"})
//
// listener.NewRedisPublisherFromEnv does the same in one call and closes the
// client it opened when the publisher is closed.
package redis
