package term

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/buxx/rollgui2-sub000/internal/description"
	"github.com/buxx/rollgui2-sub000/internal/engine"
	"github.com/buxx/rollgui2-sub000/internal/render"
)

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleFocus   = tcell.StyleDefault.Reverse(true)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleNotice  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleButton  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

// Draw перерисовывает экран целиком и запоминает кликабельные области.
func (t *Term) Draw(e engine.Engine, f engine.Frame) {
	t.kind = e.Kind()
	t.hits = t.hits[:0]
	t.view = nil
	t.screen.Clear()

	switch e := e.(type) {
	case *engine.Root:
		t.drawRoot(e)
	case *engine.LoadZone:
		done, total := e.Progress()
		t.centered(styleDefault, fmt.Sprintf("Chargement de la zone (%d/%d)", done, total))
	case *engine.Zone:
		t.drawZone(e)
	case *engine.LoadDescription:
		t.centered(styleDefault, "Chargement de "+e.URL())
	case *engine.Description:
		t.drawDescription(e)
	case *engine.World:
		t.drawWorld(e)
	case *engine.CheckDead:
		t.centered(styleDefault, "Vérification du personnage")
	case *engine.Error:
		t.drawError(e)
	}
	t.screen.Show()
}

func (t *Term) text(x, y int, style tcell.Style, s string) int {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func (t *Term) button(x, y int, style tcell.Style, label string, in engine.Input) int {
	end := t.text(x, y, style, label)
	t.hits = append(t.hits, hit{x: x, y: y, w: end - x, h: 1, input: in})
	return end
}

// tallButton - отдельно стоящая кнопка. Строки списков остаются button.
func (t *Term) tallButton(x, y int, style tcell.Style, label string, in engine.Input) int {
	end := t.button(x, y, style, label, in)
	t.hits[len(t.hits)-1].h = t.buttonHeight()
	return end
}

// buttonHeight - на сенсорном экране кнопка занимает и строку под подписью.
func (t *Term) buttonHeight() int {
	if t.mobile {
		return 2
	}
	return 1
}

// centered пишет строку по центру экрана и возвращает ее y.
func (t *Term) centered(style tcell.Style, s string) int {
	w, h := t.screen.Size()
	y := h / 2
	t.text(max(0, (w-utf8.RuneCountInString(s))/2), y, style, s)
	return y
}

func (t *Term) drawRoot(r *engine.Root) {
	w, h := t.screen.Size()
	x, y := max(0, w/2-20), max(0, h/2-5)

	t.text(x, y, styleTitle, "Rollgui")

	fields := []struct {
		label string
		value string
	}{
		{"Identifiant  : ", r.Login},
		{"Mot de passe : ", strings.Repeat("*", utf8.RuneCountInString(r.Password))},
	}
	for i, field := range fields {
		style := styleDefault
		if r.Focus == i {
			style = styleFocus
		}
		end := t.text(x, y+2+i, styleDefault, field.label)
		t.text(end, y+2+i, style, field.value+" ")
	}

	switch {
	case r.Waiting():
		t.text(x, y+5, styleDim, "Connexion")
	case r.Error != "":
		t.text(x, y+5, styleError, r.Error)
	case r.Notice != "":
		t.text(x, y+5, styleNotice, r.Notice)
	}

	end := t.tallButton(x, y+7, styleButton, "[ Connexion ]", engine.Press(engine.ButtonLogin))
	end = t.tallButton(end+1, y+7, styleButton, "[ Créer un compte (F2) ]", engine.Press(engine.ButtonCreateAccount))
	t.tallButton(end+1, y+7, styleButton, "[ Quitter (F10) ]", engine.Press(engine.ButtonQuit))
}

func (t *Term) drawDescription(d *engine.Description) {
	_, h := t.screen.Size()
	p := d.Page
	body := max(1, h-3)

	offset := 0
	if d.Focus >= body {
		offset = d.Focus - body + 1
	}
	for i, y := offset, 0; i < len(p.Lines) && y < body; i, y = i+1, y+1 {
		line := p.Lines[i]
		label, style := lineText(p, line)
		prefix := "  "
		if i == d.Focus {
			prefix = "> "
			style = style.Reverse(true)
		}
		if line.Kind == description.LineText {
			t.text(0, y, style, prefix+label)
			continue
		}
		t.button(0, y, style, prefix+label, engine.PressAt(engine.ButtonLine, i))
	}

	if p.Error != "" {
		t.text(0, h-2, styleError, p.Error)
	}
	end := t.button(0, h-1, styleButton, "[ Retour (Échap) ]", engine.Press(engine.ButtonBack))
	end = t.button(end+1, h-1, styleButton, "[ Fermer (F10) ]", engine.Press(engine.ButtonClose))
	if p.Doc.FooterActions {
		t.button(end+1, h-1, styleButton, "[ Actions (F1) ]", engine.Press(engine.ButtonMainActions))
	}
}

// lineText - текст строки описания с отметками поля.
func lineText(p *description.Page, line description.Line) (string, tcell.Style) {
	switch line.Kind {
	case description.LineLink:
		return "→ " + line.Text, styleButton
	case description.LineSubmit:
		return "[ " + line.Text + " ]", styleButton
	case description.LineField:
		f := p.Forms[line.Form].Fields[line.Field]
		switch f.Kind {
		case description.FieldCheckbox:
			if f.Checked {
				return "[x] " + f.Label, styleDefault
			}
			return "[ ] " + f.Label, styleDefault
		case description.FieldChoice:
			return f.Label + " : < " + f.Value + " >", styleDefault
		}
		value := f.Label + " : [" + f.Value + "]"
		if f.Unit != "" {
			value += " " + f.Unit
		}
		return value, styleDefault
	}
	if slices.Contains(line.Classes, "title") {
		return line.Text, styleTitle
	}
	return line.Text, styleDefault
}

func (t *Term) drawWorld(wd *engine.World) {
	w, h := t.screen.Size()
	t.text(0, 0, styleTitle, "Carte du monde")
	t.button(0, h-1, styleButton, "[ Retour (Échap) ]", engine.Press(engine.ButtonBack))
	if wd.Loading() {
		t.centered(styleDim, "Chargement de la carte du monde")
		return
	}

	rows := wd.Rows()
	x0 := 0
	if len(rows) > 0 {
		x0 = max(0, (w-len(rows[0]))/2)
	}
	for r, row := range rows {
		for c, zoneType := range row {
			glyph, style := render.WorldGlyph(zoneType), styleDefault
			if int32(r) == wd.Player.WorldRowI && int32(c) == wd.Player.WorldColI {
				style = styleNotice.Bold(true)
				if wd.PlayerVisible() {
					glyph = render.GlyphPlayer
				}
			}
			t.screen.SetContent(x0+c, 2+r, glyph, nil, style)
		}
	}
}

func (t *Term) drawError(e *engine.Error) {
	y := t.centered(styleError, e.Reason)
	w, _ := t.screen.Size()
	hint := "Appuyez sur une touche pour revenir à l'accueil"
	t.text(max(0, (w-utf8.RuneCountInString(hint))/2), y+2, styleDim, hint)
}
