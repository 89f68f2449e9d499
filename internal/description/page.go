package description

import (
	"github.com/buxx/rollgui2-sub000/pkg/api"
)

// DefaultSubmitLabel - подпись кнопки формы без submit_label.
const DefaultSubmitLabel = "Valider"

type LineKind int

const (
	LineText LineKind = iota
	LineLink
	LineField
	LineSubmit
)

// Line - одна отображаемая строка страницы.
// Link, Form и Field - индексы в Page.Links, Page.Forms и Form.Fields.
type Line struct {
	Kind    LineKind
	Text    string
	Classes []string
	Link    int
	Form    int
	Field   int
}

type Link struct {
	Label string
	URL   string
}

// Page - документ описания, подготовленный к показу и вводу.
type Page struct {
	Doc   api.Description
	URL   string
	Lines []Line
	Links []Link
	Forms []*Form
	// Error - встроенный баннер ошибки (запрос с этой страницы не удался).
	Error string
}

// NewPage проверяет документ и раскладывает его в строки.
func NewPage(d api.Description, url string) (*Page, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	p := &Page{Doc: d, URL: url}
	if title := d.TitleText(); title != "" {
		p.Lines = append(p.Lines, Line{Kind: LineText, Text: title, Classes: []string{"title"}})
	}
	p.addParts(d.Items, -1)
	p.addParts(d.FooterLinks, -1)
	return p, nil
}

func (p *Page) addParts(parts []api.Part, form int) {
	for _, part := range parts {
		switch {
		case part.IsForm:
			p.addForm(part)
		case part.IsFollowLink():
			p.Links = append(p.Links, Link{Label: part.LabelText(), URL: *part.FormAction})
			p.Lines = append(p.Lines, Line{Kind: LineLink, Text: part.LabelText(), Classes: part.Classes, Link: len(p.Links) - 1})
		case form >= 0 && (part.Type != nil || part.IsCheckbox || len(part.Choices) > 0):
			f := p.Forms[form]
			f.Fields = append(f.Fields, newField(part))
			p.Lines = append(p.Lines, Line{Kind: LineField, Text: part.LabelText(), Form: form, Field: len(f.Fields) - 1})
		case len(part.Items) > 0:
			// Колонки и группы: только содержимое.
			if text := part.LabelText(); text != "" {
				p.Lines = append(p.Lines, Line{Kind: LineText, Text: text, Classes: part.Classes})
			}
			p.addParts(part.Items, form)
		default:
			if text := part.LabelText(); text != "" {
				p.Lines = append(p.Lines, Line{Kind: LineText, Text: text, Classes: part.Classes})
			}
		}
	}
}

func (p *Page) addForm(part api.Part) {
	f := &Form{InQuery: part.FormValuesInQuery, SubmitLabel: DefaultSubmitLabel}
	if part.FormAction != nil {
		f.Action = *part.FormAction
	}
	if part.SubmitLabel != nil {
		f.SubmitLabel = *part.SubmitLabel
	}
	p.Forms = append(p.Forms, f)
	index := len(p.Forms) - 1

	if text := part.LabelText(); text != "" {
		p.Lines = append(p.Lines, Line{Kind: LineText, Text: text, Classes: part.Classes})
	}
	p.addParts(part.Items, index)
	p.Lines = append(p.Lines, Line{Kind: LineSubmit, Text: f.SubmitLabel, Form: index})
}

// Title - заголовок документа или заглушка.
func (p *Page) Title() string {
	if t := p.Doc.TitleText(); t != "" {
		return t
	}
	return "__NO_TITLE__"
}

// Clone копирует страницу вместе со значениями форм (стек навигации).
func (p *Page) Clone() *Page {
	cp := *p
	cp.Forms = make([]*Form, len(p.Forms))
	for i, f := range p.Forms {
		fc := *f
		fc.Fields = make([]*Field, len(f.Fields))
		for j, field := range f.Fields {
			fieldCopy := *field
			fc.Fields[j] = &fieldCopy
		}
		cp.Forms[i] = &fc
	}
	return &cp
}

// Stack - история страниц для "назад".
type Stack struct {
	pages []*Page
}

func (s *Stack) Push(p *Page) {
	s.pages = append(s.pages, p)
}

func (s *Stack) Pop() (*Page, bool) {
	if len(s.pages) == 0 {
		return nil, false
	}
	p := s.pages[len(s.pages)-1]
	s.pages = s.pages[:len(s.pages)-1]
	return p, true
}

func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.pages)
}

// BackTarget - что делать по кнопке "назад" при пустом стеке.
type BackTarget int

const (
	BackNone BackTarget = iota
	BackURL
	BackZone
)

// Back решает, куда вести "назад" без истории.
func (p *Page) Back() (BackTarget, string) {
	if p.Doc.ForceBackURL != nil {
		return BackURL, *p.Doc.ForceBackURL
	}
	if p.Doc.BackURLIsZone {
		return BackZone, ""
	}
	if p.Doc.BackURL != nil {
		return BackURL, *p.Doc.BackURL
	}
	return BackNone, ""
}
