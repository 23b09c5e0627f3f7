package events

import "github.com/atomicstack/clock-menu/internal/logging"

type UITracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (UITracer) SessionEnter(title string, items int) {
	logging.Trace("menu.enter", map[string]interface{}{"title": title, "items": items})
}

func (UITracer) SessionExit(reason string) {
	logging.Trace("menu.exit", map[string]interface{}{"reason": reason})
}

func (UITracer) MenuCursor(from, to int) {
	logging.Trace("menu.cursor", map[string]interface{}{"from": from, "to": to})
}

func (UITracer) KeyIgnored(code int) {
	logging.Trace("menu.key.ignored", map[string]interface{}{"code": code})
}

func (ActionTracer) Error(label string, err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"label": label, "error": err.Error()})
}

func (ActionTracer) Success(label string) {
	logging.Trace("action.success", map[string]interface{}{"label": label})
}

func (CommandTracer) Queue(index int, label string) {
	logging.Trace("command.queue", map[string]interface{}{"index": index, "label": label})
}

func (CommandTracer) Skip(index int, label string) {
	logging.Trace("command.skip", map[string]interface{}{"index": index, "label": label})
}
