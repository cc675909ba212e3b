package app

import (
	"context"
	"fmt"
)

// Command is a user intent from any front end. Dispatch runs it against the
// service; results arrive through the Listener.
type Command interface {
	command()
}

type (
	AddSet    struct{ Number string }
	RemoveSet struct{ Number string }
	Select    struct{ Number string }
	Deselect  struct{}
	Save      struct{}
	Reload    struct{}

	// Search results are delivered through Listener.RowsReset.
	Search struct{ Query string }

	EditField struct {
		Number string
		Field  Field
		Value  string
	}
)

func (AddSet) command()    {}
func (RemoveSet) command() {}
func (Select) command()    {}
func (Deselect) command()  {}
func (Save) command()      {}
func (Reload) command()    {}
func (Search) command()    {}
func (EditField) command() {}

// Dispatch runs cmd.
func (s *Service) Dispatch(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case AddSet:
		_, err := s.AddSet(ctx, c.Number)
		return err
	case RemoveSet:
		return s.RemoveSet(ctx, c.Number)
	case Select:
		return s.Select(ctx, c.Number)
	case Deselect:
		return s.Deselect(ctx)
	case Save:
		return s.Save(ctx)
	case Reload:
		return s.Load(ctx)
	case Search:
		s.listener.RowsReset(s.Search(c.Query))
		return nil
	case EditField:
		_, err := s.EditField(ctx, c.Number, c.Field, c.Value)
		return err
	default:
		return fmt.Errorf("app: unknown command %T", cmd)
	}
}
