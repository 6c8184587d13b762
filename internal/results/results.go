package results

// OperationResult carries either a domain success or a domain failure payload.
// Infrastructure errors travel on the ordinary error return next to it; a
// failure here is a business outcome (validation rejected, record missing)
// that the caller renders rather than retries.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// SuccessResult wraps a success payload.
func SuccessResult[S any, F any](success S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &success}
}

// FailureResult wraps a failure payload.
func FailureResult[S any, F any](failure F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &failure}
}

// FailureOrError routes a (domain failure, infrastructure error) pair into
// the result/error split: the error wins, then the failure. Callers use it
// after helpers that return both.
func FailureOrError[S any](failure error, err error) (OperationResult[S, error], error) {
	if err != nil {
		return OperationResult[S, error]{}, err
	}
	return FailureResult[S, error](failure), nil
}

func (r OperationResult[S, F]) IsSuccess() bool {
	return r.Success != nil
}

func (r OperationResult[S, F]) IsFailure() bool {
	return r.Failure != nil
}
