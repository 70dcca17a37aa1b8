package core

import "context"

type Renderer interface {
	Render(ctx context.Context, snapshot Snapshot)
}
