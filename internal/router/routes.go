package router

// 主要な画面のパス。
const (
	PathWelcome   = "/"
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
)

// Route は画面のルート定義。
type Route struct {
	// Name はルート名。URLの組み立てに使う。
	Name string
	// Path はgorilla/mux形式のパステンプレート。
	Path string
	// RequiresAuth が真の場合、未認証の遷移は /login へ振り替える。
	RequiresAuth bool
	// RequiresGuest が真の場合、認証済みの遷移は /dashboard へ振り替える。
	RequiresGuest bool
}

// Routes はKookingの画面一覧を返す。
func Routes() []Route {
	return []Route{
		{Name: "Welcome", Path: PathWelcome},
		{Name: "Login", Path: PathLogin, RequiresGuest: true},
		{Name: "Register", Path: "/register", RequiresGuest: true},
		{Name: "OAuth2Callback", Path: "/oauth2/callback"},
		{Name: "Profile", Path: "/profile"},
		{Name: "RecipeDetail", Path: "/recipe/{id}"},
		{Name: "Dashboard", Path: PathDashboard},
		{Name: "Recipes", Path: "/recipes"},
		{Name: "RecipeSearch", Path: "/search"},
		{Name: "Category", Path: "/category/{category}"},
		{Name: "RecipeCollection", Path: "/collection/{type}"},
		{Name: "AdvancedSearch", Path: "/recipes/advanced-search"},
		{Name: "Ingredients", Path: "/ingredients"},
		{Name: "MyRecipes", Path: "/my-recipes"},
		{Name: "ShoppingList", Path: "/shopping-list"},
		{Name: "About", Path: "/about"},
		{Name: "Favorites", Path: "/favorites"},
	}
}
