package engine

import (
	"slices"

	"github.com/buxx/rollgui2-sub000/internal/description"
	"github.com/buxx/rollgui2-sub000/internal/transport"
)

// Description показывает документ описания и ведет навигацию по нему.
// Focus - индекс строки страницы, на которой стоит курсор (-1 - нет активных строк).
type Description struct {
	session Session
	history description.Stack

	Page  *description.Page
	Focus int
}

func NewDescription(session Session, page *description.Page, history description.Stack) *Description {
	d := &Description{session: session, Page: page, history: history, Focus: -1}
	d.move(1)
	return d
}

// NewDescriptionFrom - прошлая страница со встроенной ошибкой.
func NewDescriptionFrom(session Session, page *description.Page, history description.Stack, reason string) *Description {
	d := NewDescription(session, page, history)
	d.Page.Error = reason
	return d
}

func (d *Description) Kind() Kind { return KindDescription }

func (d *Description) Depth() int {
	return d.history.Len()
}

func (d *Description) Tick(_ Frame, inputs []Input) []Message {
	for _, in := range inputs {
		if msgs := d.handle(in); len(msgs) > 0 {
			return msgs
		}
	}
	return nil
}

func (d *Description) handle(in Input) []Message {
	switch in := in.(type) {
	case Button:
		switch in.ID {
		case ButtonLine:
			if !d.interactive(in.Index) {
				return nil
			}
			d.Focus = in.Index
			return d.activate()
		case ButtonBack:
			return d.back()
		case ButtonClose:
			return d.close()
		case ButtonMainActions:
			if d.session.HasCharacter() && d.Page.Doc.FooterActions {
				return d.load(DescriptionRequest{URL: transport.DescribeCharacterPath(d.session.CharacterID, "main_actions")})
			}
		}
	case KeyPress:
		return d.handleKey(in)
	}
	return nil
}

func (d *Description) handleKey(k KeyPress) []Message {
	switch k.Key {
	case KeyEscape:
		return d.back()
	case KeyTab, KeyDown:
		d.move(1)
	case KeyBacktab, KeyUp:
		d.move(-1)
	case KeyEnter:
		return d.activate()
	case KeyLeft:
		d.cycle(-1)
	case KeyRight:
		d.cycle(1)
	case KeyBackspace:
		if f := d.focusedField(); f != nil && f.Kind != description.FieldCheckbox {
			if r := []rune(f.Value); len(r) > 0 {
				f.Value = string(r[:len(r)-1])
			}
		}
	case KeyRune:
		f := d.focusedField()
		if f == nil {
			return nil
		}
		switch {
		case f.Kind == description.FieldCheckbox:
			if k.Rune == ' ' {
				f.Checked = !f.Checked
			}
		case f.Kind == description.FieldChoice && !f.FreeChoice:
		default:
			f.Value += string(k.Rune)
		}
	}
	return nil
}

// --- КУРСОР ---

func (d *Description) interactive(i int) bool {
	if i < 0 || i >= len(d.Page.Lines) {
		return false
	}
	return d.Page.Lines[i].Kind != description.LineText
}

// move переводит курсор на следующую активную строку по кругу.
func (d *Description) move(delta int) {
	n := len(d.Page.Lines)
	if n == 0 {
		return
	}
	i := d.Focus
	for j := 0; j < n; j++ {
		i = (i + delta + n) % n
		if d.interactive(i) {
			d.Focus = i
			return
		}
	}
}

func (d *Description) focusedLine() (description.Line, bool) {
	if !d.interactive(d.Focus) {
		return description.Line{}, false
	}
	return d.Page.Lines[d.Focus], true
}

func (d *Description) focusedField() *description.Field {
	line, ok := d.focusedLine()
	if !ok || line.Kind != description.LineField {
		return nil
	}
	return d.Page.Forms[line.Form].Fields[line.Field]
}

// cycle перебирает варианты поля выбора.
func (d *Description) cycle(delta int) {
	f := d.focusedField()
	if f == nil || f.Kind != description.FieldChoice || len(f.Choices) == 0 {
		return
	}
	i := slices.Index(f.Choices, f.Value)
	if i < 0 {
		i = 0
	} else {
		i = (i + delta + len(f.Choices)) % len(f.Choices)
	}
	f.Value = f.Choices[i]
}

// --- ДЕЙСТВИЯ ---

func (d *Description) activate() []Message {
	line, ok := d.focusedLine()
	if !ok {
		return nil
	}
	switch line.Kind {
	case description.LineLink:
		return d.load(DescriptionRequest{URL: d.Page.Links[line.Link].URL})
	case description.LineSubmit:
		sub, err := d.Page.Forms[line.Form].Submission()
		if err != nil {
			d.Page.Error = err.Error()
			return nil
		}
		return d.load(DescriptionRequest{URL: sub.URL, Query: sub.Query, Data: sub.Data})
	case description.LineField:
		f := d.Page.Forms[line.Form].Fields[line.Field]
		switch f.Kind {
		case description.FieldCheckbox:
			f.Checked = !f.Checked
		case description.FieldChoice:
			d.cycle(1)
		default:
			d.move(1)
		}
	}
	return nil
}

// load уходит на новую страницу, текущая запоминается для возврата.
func (d *Description) load(req DescriptionRequest) []Message {
	d.Page.Error = ""
	return []Message{SetLoadDescriptionEngine{
		Session:  d.session,
		Request:  req,
		Previous: d.Page.Clone(),
		History:  d.history,
	}}
}

// back: стек навигации, затем ссылки "назад" документа, затем закрытие.
func (d *Description) back() []Message {
	if prev, ok := d.history.Pop(); ok {
		return []Message{SetDescriptionEngine{Session: d.session, Page: prev, History: d.history}}
	}
	target, url := d.Page.Back()
	switch target {
	case description.BackURL:
		return []Message{SetLoadDescriptionEngine{Session: d.session, Request: DescriptionRequest{URL: url}}}
	case description.BackZone:
		if d.session.HasCharacter() {
			return []Message{SetLoadZoneEngine{Session: d.session, RequestClicks: d.Page.Doc.RequestClicks}}
		}
	}
	return d.close()
}

// close возвращает в зону, если персонаж известен, иначе на экран входа.
func (d *Description) close() []Message {
	if d.session.HasCharacter() {
		return []Message{SetLoadZoneEngine{Session: d.session, RequestClicks: d.Page.Doc.RequestClicks}}
	}
	return []Message{SetRootEngine{}}
}
