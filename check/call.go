package check

import "context"

// Call runs body as a checked call of sig with args.
//
// The body receives the context carrying the call's scope and only runs if
// the inputs match. Errors returned by body are returned unchanged. If the
// result does not match, it is returned together with a *MismatchError.
// When checking is disabled, body is called directly.
func Call[R any](ctx context.Context, sig *Signature, args []any, body func(context.Context) (R, error)) (R, error) {
	if !Enabled() {
		return body(ctx)
	}
	ctx, frame, err := CheckCall(ctx, CallContext{Signature: sig, Args: args})
	if err != nil {
		var zero R
		return zero, err
	}
	defer frame.Exit()

	out, err := body(ctx)
	if err != nil {
		return out, err
	}
	return out, frame.CheckOutput(out)
}

// Wrap returns fn as a checked function of sig.
func Wrap[R any](sig *Signature, fn func(ctx context.Context, args ...any) (R, error)) func(ctx context.Context, args ...any) (R, error) {
	return func(ctx context.Context, args ...any) (R, error) {
		return Call(ctx, sig, args, func(ctx context.Context) (R, error) {
			return fn(ctx, args...)
		})
	}
}

func Wrap1[A, R any](sig *Signature, fn func(context.Context, A) (R, error)) func(context.Context, A) (R, error) {
	return func(ctx context.Context, a A) (R, error) {
		return Call(ctx, sig, []any{a}, func(ctx context.Context) (R, error) {
			return fn(ctx, a)
		})
	}
}

func Wrap2[A, B, R any](sig *Signature, fn func(context.Context, A, B) (R, error)) func(context.Context, A, B) (R, error) {
	return func(ctx context.Context, a A, b B) (R, error) {
		return Call(ctx, sig, []any{a, b}, func(ctx context.Context) (R, error) {
			return fn(ctx, a, b)
		})
	}
}

func Wrap3[A, B, C, R any](sig *Signature, fn func(context.Context, A, B, C) (R, error)) func(context.Context, A, B, C) (R, error) {
	return func(ctx context.Context, a A, b B, c C) (R, error) {
		return Call(ctx, sig, []any{a, b, c}, func(ctx context.Context) (R, error) {
			return fn(ctx, a, b, c)
		})
	}
}
