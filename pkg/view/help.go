package view

import (
	"fmt"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/sw33tLie/dispensa/pkg/expiry"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

var helpMarkdownContent = fmt.Sprintf(`
# Come funziona

Ogni alimento appartiene a uno dei cinque luoghi di conservazione. Clicca su una
categoria per aprirla e vedere gli alimenti, il prezzo e il totale.

## Colori della scadenza

*   **Verde**: mancano più di %[1]d giorni.
*   **Giallo**: mancano da %[3]d a %[1]d giorni.
*   **Rosso**: mancano %[2]d giorni o meno, oppure l'alimento è già scaduto.

## Modificare i dati

Usa **Nuovo alimento** per aggiungere un elemento, **Modifica** per cambiarne nome,
scadenza o prezzo ed **Elimina** per rimuoverlo. I dati sono salvati dopo ogni modifica.

[Torna all'inventario](/)
`, expiry.WarningDays, expiry.DangerDays, expiry.DangerDays+1)

// Help renders the help page body.
func Help() g.Node {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)

	htmlOutput := markdown.ToHTML([]byte(helpMarkdownContent), p, nil)

	return Main(Class("help"),
		Section(Class("prose"), g.Raw(string(htmlOutput))),
	)
}
