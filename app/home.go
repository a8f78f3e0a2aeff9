package app

// HomeView is the static landing page content
type HomeView struct {
	Title       string
	Tagline     string
	Authors     []string
	Description string
	DocsQR      string
	EnterLabel  string
	EnterPath   string
	Footer      string
}

// HomePage has no state and performs no network calls
type HomePage struct{}

// NewHomePage creates the landing page
func NewHomePage() *HomePage {
	return &HomePage{}
}

// View returns the landing page content
func (HomePage) View() HomeView {
	return HomeView{
		Title:   "CivIA",
		Tagline: "Sistema de Análisis Inteligente SENA",
		Authors: []string{
			"Emilia Gallo Alzate",
			"María Ximena Marín Delgado",
		},
		Description: "CivIA es una herramienta que analiza información social y emocional " +
			"proveniente de comunidades locales. Usa inteligencia artificial para detectar " +
			"patrones, medir impacto social y ofrecer recomendaciones a organizaciones " +
			"sociales y del sector público.",
		DocsQR:     "/assets/qr-docu.svg",
		EnterLabel: "Entrar a la Plataforma",
		EnterPath:  "/dashboard",
		Footer:     "© 2025 CivIA | Proyecto desarrollado en el marco de SENASOFT",
	}
}
