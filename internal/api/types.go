package api

// User はユーザーのプロフィール。
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// LoginRequest はログインAPIのリクエスト。
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse はログインAPIのレスポンス。
type LoginResponse struct {
	// Token はBearerトークンとして使用するJWT。
	Token string `json:"token"`
	// Message はサーバーからのメッセージ。
	Message string `json:"message,omitempty"`
}

// RegisterRequest はユーザー登録APIのリクエスト。
type RegisterRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UpdateProfileRequest はプロフィール更新APIのリクエスト。
type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserPreferences は料理の好みの設定。
type UserPreferences struct {
	PreferredCuisine        []string `json:"preferredCuisine"`
	PreferredMealTypes      []string `json:"preferredMealTypes"`
	DietaryRestrictions     []string `json:"dietaryRestrictions"`
	PreferredCookingMethods []string `json:"preferredCookingMethods"`
	PreferredDifficulty     string   `json:"preferredDifficulty,omitempty"`
}

// Page はページングされた一覧レスポンス。
// 独自のPageResponse形式とSpringのPage形式の両方を受け取れるようにしている。
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// Index は0始まりのページ番号を返す。
func (p Page[T]) Index() int {
	return max(p.PageNumber, p.Number)
}

// RecipeCard は一覧表示用のレシピ。
type RecipeCard struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Cuisine       string  `json:"cuisine"`
	MealType      string  `json:"mealType"`
	CookingTime   int     `json:"cookingTime"`
	DietType      string  `json:"dietType"`
	CookingMethod string  `json:"cookingMethod"`
	Difficulty    string  `json:"difficulty"`
	ImageURL      string  `json:"imageUrl"`
	Rating        float64 `json:"rating"`
	Popularity    int     `json:"popularity"`
}

// RecipeBrief はレビュー等に埋め込まれる簡易レシピ。
type RecipeBrief struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cuisine     string  `json:"cuisine"`
	MealType    string  `json:"mealType"`
	CookingTime int     `json:"cookingTime"`
	ImageURL    string  `json:"imageUrl"`
	Rating      float64 `json:"rating"`
	Author      *User   `json:"author,omitempty"`
}

// RecipeIngredient はレシピ内の材料と分量。
type RecipeIngredient struct {
	IngredientID   string  `json:"ingredientId"`
	IngredientName string  `json:"ingredientName,omitempty"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	Notes          string  `json:"notes,omitempty"`
}

// RecipeDetail はレシピの詳細。
type RecipeDetail struct {
	RecipeCard
	Ingredients  []RecipeIngredient `json:"ingredients"`
	Instructions string             `json:"instructions"`
	Author       *User              `json:"author,omitempty"`
	IsFavorite   bool               `json:"isFavorite"`
}

// CreateRecipeRequest はレシピ作成・更新APIのリクエスト。
type CreateRecipeRequest struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Cuisine       string             `json:"cuisine"`
	MealType      string             `json:"mealType"`
	CookingTime   int                `json:"cookingTime"`
	DietType      string             `json:"dietType"`
	CookingMethod string             `json:"cookingMethod"`
	Difficulty    string             `json:"difficulty"`
	Ingredients   []RecipeIngredient `json:"ingredients"`
	Instructions  string             `json:"instructions"`
	ImageURL      string             `json:"imageUrl,omitempty"`
}

// IngredientBrief は材料の簡易表現。
type IngredientBrief struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Ingredient は材料の詳細。
type Ingredient struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Category         string            `json:"category"`
	NutritionalValue string            `json:"nutritionalValue"`
	Substitutes      []IngredientBrief `json:"substitutes"`
}

// CreateIngredientRequest は材料作成・更新APIのリクエスト。
type CreateIngredientRequest struct {
	Name             string `json:"name"`
	Category         string `json:"category"`
	NutritionalValue string `json:"nutritionalValue,omitempty"`
}

// ShoppingStatus は買い物リストの状態。
type ShoppingStatus string

const (
	// ShoppingStatusPending は未購入。
	ShoppingStatusPending ShoppingStatus = "PENDING"
	// ShoppingStatusCompleted は購入済み。
	ShoppingStatusCompleted ShoppingStatus = "COMPLETED"
)

// ShoppingList は買い物リスト。
type ShoppingList struct {
	ID          string            `json:"id"`
	User        *User             `json:"user,omitempty"`
	Ingredients []IngredientBrief `json:"ingredients"`
	Status      ShoppingStatus    `json:"status"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

// UpdateShoppingListRequest は買い物リストの作成・更新APIのリクエスト。
type UpdateShoppingListRequest struct {
	IngredientIDs []string       `json:"ingredientIds"`
	Status        ShoppingStatus `json:"status,omitempty"`
}

// ShoppingStatusRequest は買い物リストの状態更新APIのリクエスト。
type ShoppingStatusRequest struct {
	Status ShoppingStatus `json:"status"`
}

// AddIngredientsRequest は買い物リストへの材料追加APIのリクエスト。
type AddIngredientsRequest struct {
	IngredientIDs []string `json:"ingredientIds"`
}

// Review はレシピのレビュー。
type Review struct {
	ID        string       `json:"id"`
	User      *User        `json:"user,omitempty"`
	Recipe    *RecipeBrief `json:"recipe,omitempty"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
}

// ReviewRequest はレビュー作成・更新APIのリクエスト。
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
