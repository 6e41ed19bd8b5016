package meeting

import (
	"context"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/directory"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
)

type Resolver struct {
	calls directory.Directory
}

func NewResolver(calls directory.Directory) *Resolver {
	return &Resolver{calls: calls}
}

// ResolveByCode looks the code up in the call directory. Codes are not unique,
// only the first match is considered. An ended match is reported as ErrEnded
// together with the call.
func (v *Resolver) ResolveByCode(ctx context.Context, code Code) (models.Call, error) {
	calls, err := v.calls.QueryCalls(ctx, directory.Query{
		MeetingCode: code.String(),
		Limit:       1,
	})
	if err != nil {
		return models.Call{}, &TransportError{Op: OperationJoin, Err: err}
	} else if len(calls) == 0 {
		return models.Call{}, ErrNotFound
	}

	call := calls[0]
	if call.IsEnded() {
		return call, ErrEnded
	}
	return call, nil
}
