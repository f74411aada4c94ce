package kafka

import (
    "context"
    "fmt"

    "github.com/segmentio/kafka-go"
)

// ConsumerHook observes message handling. BeforeHandle may rewrite the
// context, message, or payload; a non-nil error skips the handler and goes
// straight to error processing (OnError, DLQ, offset commit).
type ConsumerHook interface {
    BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error)
    AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
    OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
}

// NoopHook is the default hook.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
    return ctx, km, data, nil
}

func (NoopHook) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
}

func (NoopHook) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
}

// HookError classifies a hook failure, e.g. "ERR_VALIDATION".
type HookError struct {
    Code string
    Err  error
}

func (e *HookError) Error() string {
    if e.Err != nil {
        return fmt.Sprintf("%s: %v", e.Code, e.Err)
    }
    return e.Code
}

func (e *HookError) Unwrap() error { return e.Err }

// HookFuncs adapts plain functions into a ConsumerHook. Nil functions are
// no-ops, and every call recovers so a hook cannot crash the consumer.
type HookFuncs struct {
    Before func(context.Context, string, kafka.Message, []byte) (context.Context, kafka.Message, []byte, error)
    After  func(context.Context, string, kafka.Message, []byte, error)
    Err    func(context.Context, string, kafka.Message, []byte, error)
}

func (h HookFuncs) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (outCtx context.Context, outMsg kafka.Message, outData []byte, err error) {
    outCtx, outMsg, outData = ctx, km, data
    if h.Before == nil {
        return
    }
    defer func() {
        if r := recover(); r != nil {
            outCtx, outMsg, outData = ctx, km, data
            err = &HookError{Code: "ERR_PANIC", Err: fmt.Errorf("hook panic: %v", r)}
        }
    }()
    return h.Before(ctx, topic, km, data)
}

func (h HookFuncs) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
    if h.After == nil {
        return
    }
    defer func() { _ = recover() }()
    h.After(ctx, topic, km, data, err)
}

func (h HookFuncs) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
    if h.Err == nil {
        return
    }
    defer func() { _ = recover() }()
    h.Err(ctx, topic, km, data, err)
}
