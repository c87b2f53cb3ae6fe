package ai

import (
	"encoding/json"
	"math"
	"sort"
)

// Match - результат ранжирования по близости эмбеддингов.
type Match struct {
	ID    string
	Score float64
}

// CosineSimilarity возвращает косинусную близость двух векторов.
// Для векторов разной длины или нулевой нормы возвращает 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RankBySimilarity сортирует кандидатов по убыванию близости к query.
// Кандидаты без эмбеддинга пропускаются.
func RankBySimilarity(query []float32, candidates map[string][]float32, limit int) []Match {
	matches := make([]Match, 0, len(candidates))
	for id, emb := range candidates {
		if len(emb) == 0 {
			continue
		}
		matches = append(matches, Match{ID: id, Score: CosineSimilarity(query, emb)})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// EncodeEmbedding сериализует вектор для хранения в jsonb-колонке.
func EncodeEmbedding(emb []float32) ([]byte, error) {
	return json.Marshal(emb)
}

// DecodeEmbedding разбирает вектор из jsonb-колонки.
func DecodeEmbedding(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var emb []float32
	if err := json.Unmarshal(data, &emb); err != nil {
		return nil, err
	}
	return emb, nil
}
