package mockapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/kooking/internal/api"
)

// デモユーザーの認証情報。
const (
	DemoEmail    = "demo@kooking.dev"
	DemoPassword = "password"
)

// seed はデモ用のユーザー、レシピ、材料、買い物リストを投入する。
func (s *Server) seed() {
	demo, err := s.AddUser("Demo", "Cook", DemoEmail, DemoPassword)
	if err != nil {
		logf("デモユーザーの作成に失敗: %v", err)
		return
	}

	ingredients := []api.Ingredient{
		{ID: "ing-1", Name: "Chicken", Category: "MEAT", NutritionalValue: "High protein"},
		{ID: "ing-2", Name: "Onion", Category: "VEGETABLE"},
		{ID: "ing-3", Name: "Garlic", Category: "VEGETABLE"},
		{ID: "ing-4", Name: "Basmati Rice", Category: "GRAIN"},
		{ID: "ing-5", Name: "Coconut Milk", Category: "DAIRY_ALTERNATIVE"},
		{ID: "ing-6", Name: "Tomato", Category: "VEGETABLE"},
	}
	ingredients[1].Substitutes = []api.IngredientBrief{{ID: "ing-3", Name: "Garlic", Category: "VEGETABLE"}}

	recipes := []api.RecipeDetail{
		{
			RecipeCard: api.RecipeCard{
				ID: "rec-1", Name: "Chicken Curry", Description: "Mild coconut chicken curry",
				Cuisine: "INDIAN", MealType: "DINNER", CookingTime: 45, DietType: "NON_VEGETARIAN",
				CookingMethod: "SIMMERING", Difficulty: "MEDIUM", Rating: 4.6, Popularity: 120,
			},
			Ingredients: []api.RecipeIngredient{
				{IngredientID: "ing-1", IngredientName: "Chicken", Quantity: 500, Unit: "g"},
				{IngredientID: "ing-2", IngredientName: "Onion", Quantity: 1, Unit: "pc"},
				{IngredientID: "ing-5", IngredientName: "Coconut Milk", Quantity: 400, Unit: "ml"},
			},
			Instructions: "Brown the onion, add chicken, simmer in coconut milk.",
			Author:       &demo,
		},
		{
			RecipeCard: api.RecipeCard{
				ID: "rec-2", Name: "Tomato Rice", Description: "One pot tomato rice",
				Cuisine: "INDIAN", MealType: "LUNCH", CookingTime: 30, DietType: "VEGETARIAN",
				CookingMethod: "BOILING", Difficulty: "EASY", Rating: 4.1, Popularity: 80,
			},
			Ingredients: []api.RecipeIngredient{
				{IngredientID: "ing-4", IngredientName: "Basmati Rice", Quantity: 200, Unit: "g"},
				{IngredientID: "ing-6", IngredientName: "Tomato", Quantity: 3, Unit: "pc"},
			},
			Instructions: "Cook rice with crushed tomatoes and garlic.",
			Author:       &demo,
		},
		{
			RecipeCard: api.RecipeCard{
				ID: "rec-3", Name: "Garlic Soup", Description: "Roasted garlic soup",
				Cuisine: "FRENCH", MealType: "DINNER", CookingTime: 60, DietType: "VEGETARIAN",
				CookingMethod: "ROASTING", Difficulty: "HARD", Rating: 4.8, Popularity: 150,
			},
			Ingredients: []api.RecipeIngredient{
				{IngredientID: "ing-3", IngredientName: "Garlic", Quantity: 2, Unit: "head"},
			},
			Instructions: "Roast garlic, blend with stock.",
			Author:       &demo,
		},
	}

	now := time.Now().Format("2006-01-02T15:04:05")
	list := api.ShoppingList{
		ID:          uuid.NewString(),
		User:        &demo,
		Ingredients: []api.IngredientBrief{{ID: "ing-1", Name: "Chicken", Category: "MEAT"}, {ID: "ing-2", Name: "Onion", Category: "VEGETABLE"}},
		Status:      api.ShoppingStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingredients = ingredients
	s.recipes = recipes
	s.shoppingLists[demo.ID] = []api.ShoppingList{list}
	s.favorites[demo.ID] = map[string]struct{}{"rec-3": {}}
}
