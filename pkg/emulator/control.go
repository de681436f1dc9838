package emulator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/urmzd/gaposa/pkg/backend"
	"github.com/urmzd/gaposa/pkg/db"
	"github.com/urmzd/gaposa/pkg/model"
)

func devicePath(serial string) string {
	return "Devices/" + serial
}

// Control accepts a motor command. The hub reports the motors as running
// at once and settles them in the expected state after the propagation
// delay.
func (e *Emulator) Control(ctx context.Context, auth model.ClientAuth, req model.ControlRequest) (*model.ControlResponse, error) {
	const path = "/control"
	if err := e.authorize(ctx, http.MethodPost, path, auth, req.Serial); err != nil {
		return nil, err
	}

	scope, target := model.ScopeChannel, req.Channel
	if req.Group != "" {
		scope, target = model.ScopeGroup, req.Group
	}

	var motors []string
	err := e.store.Update(ctx, devicePath(req.Serial), func(doc map[string]any) error {
		var err error
		if motors, err = resolveMotors(doc, scope, target); err != nil {
			return err
		}
		for _, id := range motors {
			ch := mapAt(doc, "Channels", id)
			ch["HomeRunning"] = true
		}
		state := mapAt(doc, "State")
		state["LastCmd"] = string(req.Data.Cmd)
		state["TimeStamp"] = time.Now().UTC().Format(time.RFC3339)
		return nil
	})
	if err != nil {
		return nil, apiError(http.MethodPost, path, http.StatusBadRequest, backend.ErrBadRequest, err.Error())
	}

	if _, err := e.store.LogCommand(ctx, db.CommandRecord{
		Serial: req.Serial, Scope: string(scope), Target: target, Command: string(req.Data.Cmd),
	}); err != nil {
		return nil, err
	}
	e.log.V(1).Info("command accepted", "serial", req.Serial, "scope", scope, "target", target, "cmd", req.Data.Cmd.Name())

	e.propagate(req.Serial, motors, req.Data.Cmd)

	return &model.ControlResponse{
		APICommand: model.StatusSuccess,
		Msg:        "Command sent",
		Result:     model.ControlResult{Success: model.StatusOK},
	}, nil
}

func (e *Emulator) propagate(serial string, motors []string, cmd model.Command) {
	apply := func() {
		err := e.store.Update(e.ctx, devicePath(serial), func(doc map[string]any) error {
			for _, id := range motors {
				ch := mapAt(doc, "Channels", id)
				ch["State"] = model.ExpectedState(cmd)
				ch["HomeRunning"] = false
				switch cmd {
				case model.CommandUp:
					ch["HomePercent"] = 100
				case model.CommandDown:
					ch["HomePercent"] = 0
				case model.CommandPreset:
					ch["HomePercent"] = 50
				}
			}
			return nil
		})
		if err != nil && e.ctx.Err() == nil {
			e.log.Error(err, "failed to apply command", "serial", serial)
		}
	}

	if e.opts.PropagationDelay <= 0 {
		apply()
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		t := time.NewTimer(e.opts.PropagationDelay)
		defer t.Stop()
		select {
		case <-t.C:
			apply()
		case <-e.ctx.Done():
		}
	}()
}

func resolveMotors(doc map[string]any, scope model.Scope, id string) ([]string, error) {
	channels, _ := doc["Channels"].(map[string]any)
	if scope == model.ScopeChannel {
		if _, ok := channels[id]; !ok {
			return nil, fmt.Errorf("unknown channel %s", id)
		}
		return []string{id}, nil
	}

	groups, _ := doc["Groups"].(map[string]any)
	group, ok := groups[id].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unknown group %s", id)
	}
	members, _ := group["Motors"].([]any)
	var out []string
	for _, m := range members {
		key := fmt.Sprint(m)
		if n, ok := m.(json.Number); ok {
			key = n.String()
		}
		if _, ok := channels[key]; ok {
			out = append(out, key)
		}
	}
	return out, nil
}

// mapAt walks keys, creating empty objects where missing.
func mapAt(doc map[string]any, keys ...string) map[string]any {
	cur := doc
	for _, k := range keys {
		next, ok := cur[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[k] = next
		}
		cur = next
	}
	return cur
}
