package view

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/sw33tLie/dispensa/pkg/expiry"
	"github.com/sw33tLie/dispensa/pkg/form"
	"github.com/sw33tLie/dispensa/pkg/inventory"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Model is everything a full render of the app needs.
type Model struct {
	Store *inventory.Store
	State form.State
	Now   time.Time
}

// Page wraps content in the HTML document layout.
func Page(title string, content g.Node) g.Node {
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(Lang("it"),
			Head(
				Meta(Charset("UTF-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(title)),
				Link(Rel("stylesheet"), Href("/static/style.css")),
				Script(Src("https://unpkg.com/htmx.org@2.0.4")),
			),
			Body(
				content,
				// The server answers a rejected submit with an HX-Trigger carrying the alert text.
				Script(g.Raw(`document.body.addEventListener("invalid-form", function (e) { alert(e.detail.value); });`)),
			),
		),
	})
}

// App renders the whole interactive area. Every mutation answers with a fresh
// App so the category list is always re-rendered in full.
func App(m Model) g.Node {
	return Div(ID("app"),
		Header(Class("app-header"),
			H1(g.Text("Inventario Alimenti")),
			Form(Method("post"), Action("/form/new"), htmx("/form/new"),
				Button(ID("newItemButton"), Type("submit"), g.Text("Nuovo alimento")),
			),
			A(Class("help-link"), Href("/help"), g.Text("Aiuto")),
		),
		orphanNotice(m.Store),
		Div(ID("categoryList"), Categories(m.Store, m.Now)),
		Modal(m.State),
	)
}

// Categories renders every static category in display order with its items
// and subtotal. Panels start collapsed.
func Categories(store *inventory.Store, now time.Time) g.Node {
	var nodes []g.Node
	for _, c := range inventory.AllCategories() {
		items := store.Items(c.Name)
		nodes = append(nodes,
			Details(Class("category-item"), g.Attr("data-category", c.Name),
				Summary(Class("category-header"),
					Span(Class("category-icon"), g.Text(c.Icon)),
					Span(Class("category-name"), g.Text(c.Name)),
					Span(Class("item-count"), g.Textf("%d", len(items))),
				),
				Div(Class("category-content"),
					categoryItems(c.Name, items, now),
					Div(Class("category-total"), g.Text("Totale: "+Euro(store.TotalPrice(c.Name)))),
				),
			),
		)
	}
	return g.Group(nodes)
}

func categoryItems(category string, items []inventory.Item, now time.Time) g.Node {
	if len(items) == 0 {
		return P(Class("empty"), g.Text("Nessun alimento in questa categoria."))
	}
	var nodes []g.Node
	for _, it := range items {
		days := expiry.DaysRemaining(it.Expiry.Time(), now)
		class := expiry.Classify(days)
		nodes = append(nodes,
			Div(Class("food-item"), g.Attr("data-id", it.ID),
				P(Class("item-name"), g.Text(it.Name)),
				P(Class("item-price"), g.Text("Prezzo: "+Euro(it.Price))),
				P(Class("item-expiry "+class.CSS()), g.Textf("Scadenza: %s (%d giorni rimanenti)", it.Expiry, days)),
				itemAction("/form/edit", category, it.ID, "Modifica", false),
				itemAction("/items/delete", category, it.ID, "Elimina", true),
			),
		)
	}
	return g.Group(nodes)
}

func itemAction(path, category, id, label string, confirm bool) g.Node {
	vals := map[string]string{"category": category, "id": id}
	if confirm {
		// Only sent by htmx, after hx-confirm was accepted.
		vals[ConfirmedField] = "1"
	}
	raw, _ := json.Marshal(vals)
	return Form(Class("item-action"), Method("post"), Action(path), htmx(path),
		g.Attr("hx-vals", string(raw)),
		g.If(confirm, g.Attr("hx-confirm", form.PromptDelete)),
		Input(Type("hidden"), Name("category"), Value(category)),
		Input(Type("hidden"), Name("id"), Value(id)),
		Button(Type("submit"), g.Text(label)),
	)
}

// ConfirmedField marks a delete request the user already confirmed.
const ConfirmedField = "confirmed"

// ConfirmDelete asks for confirmation in the page itself, for delete
// requests that arrive without the confirmed marker.
func ConfirmDelete(category string, it inventory.Item) g.Node {
	return Div(ID("app"),
		Div(Class("confirm"), g.Attr("role", "alertdialog"),
			P(Class("confirm-prompt"), g.Text(form.PromptDelete)),
			P(Class("confirm-item"), g.Textf("%s (%s)", it.Name, category)),
			Form(Method("post"), Action("/items/delete"), htmx("/items/delete"),
				Input(Type("hidden"), Name("category"), Value(category)),
				Input(Type("hidden"), Name("id"), Value(it.ID)),
				Input(Type("hidden"), Name(ConfirmedField), Value("1")),
				Button(ID("confirmDelete"), Type("submit"), g.Text("Elimina")),
			),
			A(Class("confirm-cancel"), Href("/"), g.Text("Annulla")),
		),
	)
}

// Modal renders the item dialog for the controller state; nothing when closed.
func Modal(state form.State) g.Node {
	if state.Mode == form.Closed {
		return g.Group(nil)
	}
	editing := state.Mode == form.OpenEdit
	title := "Nuovo alimento"
	if editing {
		title = "Modifica alimento"
	}
	f := state.Fields

	options := []g.Node{Option(Value(""), g.Text("Seleziona Categoria"))}
	for _, c := range inventory.AllCategories() {
		options = append(options, Option(Value(c.Name), g.If(c.Name == f.Category, Selected()), g.Text(c.Name)))
	}

	return Div(ID("modal"), Class("modal"), g.Attr("data-mode", state.Mode.String()),
		Div(Class("modal-content"),
			H2(g.Text(title)),
			g.If(state.Alert != "", Div(Class("alert"), g.Attr("role", "alert"), g.Text(state.Alert))),
			Form(ID("newItemForm"), Method("post"), Action("/form/submit"), htmx("/form/submit"),
				Label(For("itemName"), g.Text("Nome")),
				Input(ID("itemName"), Name("name"), Type("text"), Value(f.Name)),
				Label(For("itemCategory"), g.Text("Categoria")),
				Select(ID("itemCategory"), Name("category"), g.If(editing, Disabled()), g.Group(options)),
				Label(For("itemExpiry"), g.Text("Scadenza")),
				Input(ID("itemExpiry"), Name("expiry"), Type("date"), Value(f.Expiry)),
				Label(For("itemPrice"), g.Text("Prezzo (€)")),
				Input(ID("itemPrice"), Name("price"), Type("text"), g.Attr("inputmode", "decimal"), Value(f.Price)),
				Div(Class("modal-actions"),
					Button(Type("submit"), g.Text("Salva")),
					Button(ID("cancelButton"), Type("submit"), g.Attr("formaction", "/form/cancel"),
						htmx("/form/cancel"), g.Text("Annulla")),
				),
			),
		),
	)
}

func orphanNotice(store *inventory.Store) g.Node {
	orphans := store.Orphans()
	if len(orphans) == 0 {
		return g.Group(nil)
	}
	var rows []g.Node
	for _, name := range orphans {
		rows = append(rows, Li(g.Textf("%s (%d)", name, store.Count(name))))
	}
	return Div(Class("orphans"), g.Attr("role", "status"),
		P(g.Text("Alcuni dati salvati appartengono a categorie sconosciute. Sono conservati ma non modificabili:")),
		Ul(g.Group(rows)),
	)
}

// htmx makes an element post to path and swap the returned #app in place.
func htmx(path string) g.Node {
	return g.Group([]g.Node{
		g.Attr("hx-post", path),
		g.Attr("hx-target", "#app"),
		g.Attr("hx-swap", "outerHTML"),
	})
}

// Euro formats an amount with two decimals and the euro sign, e.g. €2.50.
// Amounts of any size are formatted exactly, with no thousands grouping.
func Euro(d decimal.Decimal) string {
	c := money.GetCurrency(money.EUR)
	s := strings.Replace(d.Abs().StringFixed(int32(c.Fraction)), ".", c.Decimal, 1)
	s = strings.Replace(strings.Replace(c.Template, "1", s, 1), "$", c.Grapheme, 1)
	if d.Round(int32(c.Fraction)).IsNegative() {
		s = "-" + s
	}
	return s
}
