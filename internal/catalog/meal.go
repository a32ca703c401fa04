package catalog

import (
	"strconv"
	"strings"

	"github.com/hitoshi/recipebox/internal/model"
)

// maxIngredientSlots はカタログのレシピが持つ材料欄の数（strIngredient1〜20）。
const maxIngredientSlots = 20

// IngredientsFromMeal はstrIngredientN/strMeasureNの組を順に取り出す。
// 材料名が空白のみの欄は飛ばし、前後の空白は取り除く。
func IngredientsFromMeal(meal map[string]any) []model.Ingredient {
	ingredients := []model.Ingredient{}
	for i := 1; i <= maxIngredientSlots; i++ {
		n := strconv.Itoa(i)
		name := strings.TrimSpace(stringField(meal, "strIngredient"+n))
		if name == "" {
			continue
		}
		ingredients = append(ingredients, model.Ingredient{
			Ingredient: name,
			Measure:    strings.TrimSpace(stringField(meal, "strMeasure"+n)),
		})
	}
	return ingredients
}

// SnapshotFromMeal はカタログのレシピ1件からお気に入り用のスナップショットを組み立てる。
// strYoutube/strSourceは空の場合に省略する。
func SnapshotFromMeal(meal map[string]any) model.RecipeSnapshot {
	return model.RecipeSnapshot{
		IDMeal:          stringField(meal, "idMeal"),
		StrMeal:         stringField(meal, "strMeal"),
		StrMealThumb:    stringField(meal, "strMealThumb"),
		StrCategory:     stringField(meal, "strCategory"),
		StrArea:         stringField(meal, "strArea"),
		StrInstructions: stringField(meal, "strInstructions"),
		StrYoutube:      optionalField(meal, "strYoutube"),
		StrSource:       optionalField(meal, "strSource"),
		Ingredients:     IngredientsFromMeal(meal),
	}
}

// stringField は文字列値を返す。null・欠落・文字列以外は空文字列。
func stringField(meal map[string]any, key string) string {
	s, _ := meal[key].(string)
	return s
}

func optionalField(meal map[string]any, key string) *string {
	s := strings.TrimSpace(stringField(meal, key))
	if s == "" {
		return nil
	}
	return &s
}
