// seed_decisions.go — standalone script that evaluates sample problems against
// a running decisiond and saves each winner to the history.
//
// Usage:
//
//	go run scripts/seed_decisions.go -api http://localhost:8700 -client seeder
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
)

type entity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type judgment struct {
	ID1   string `json:"id1"`
	ID2   string `json:"id2"`
	Value int    `json:"value"`
}

type problem struct {
	Mission              string                    `json:"mission"`
	Mode                 string                    `json:"mode,omitempty"`
	Criteria             []entity                  `json:"criteria"`
	Alternatives         []entity                  `json:"alternatives"`
	CriteriaJudgments    []judgment                `json:"criteria_judgments"`
	AlternativeJudgments map[string][]judgment     `json:"alternative_judgments,omitempty"`
	Ratings              map[string]map[string]int `json:"ratings,omitempty"`
}

type criterionWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type summary struct {
	Mission         string            `json:"mission"`
	Winner          string            `json:"winner"`
	Score           float64           `json:"score"`
	CriteriaWeights []criterionWeight `json:"criteria_weights"`
}

type result struct {
	Mission  string `json:"mission"`
	Criteria []struct {
		Criterion entity  `json:"criterion"`
		Weight    float64 `json:"weight"`
	} `json:"criteria"`
	Ranking []struct {
		Name         string  `json:"name"`
		DisplayScore float64 `json:"display_score"`
	} `json:"ranking"`
	IsConsistent bool `json:"is_consistent"`
}

var samples = []problem{
	{
		Mission: "Choose a laptop for travel",
		Criteria: []entity{
			{ID: "price", Name: "Price"}, {ID: "weight", Name: "Weight"}, {ID: "battery", Name: "Battery"},
		},
		Alternatives: []entity{
			{ID: "air", Name: "Ultrabook Air"}, {ID: "pro", Name: "Workstation Pro"}, {ID: "budget", Name: "Budget 14"},
		},
		CriteriaJudgments: []judgment{
			{ID1: "price", ID2: "weight", Value: 2},
			{ID1: "price", ID2: "battery", Value: 1},
			{ID1: "battery", ID2: "weight", Value: 1},
		},
		AlternativeJudgments: map[string][]judgment{
			"price": {
				{ID1: "budget", ID2: "air", Value: 3},
				{ID1: "budget", ID2: "pro", Value: 6},
				{ID1: "air", ID2: "pro", Value: 2},
			},
			"weight": {
				{ID1: "air", ID2: "budget", Value: 4},
				{ID1: "air", ID2: "pro", Value: 6},
				{ID1: "budget", ID2: "pro", Value: 2},
			},
			"battery": {
				{ID1: "air", ID2: "pro", Value: 4},
				{ID1: "air", ID2: "budget", Value: 2},
				{ID1: "budget", ID2: "pro", Value: 1},
			},
		},
	},
	{
		Mission: "Pick a weekend trip",
		Mode:    "express",
		Criteria: []entity{
			{ID: "cost", Name: "Cost"}, {ID: "time", Name: "Travel time"},
		},
		Alternatives: []entity{
			{ID: "coast", Name: "Coast"}, {ID: "mountains", Name: "Mountains"}, {ID: "city", Name: "City"},
		},
		CriteriaJudgments: []judgment{{ID1: "time", ID2: "cost", Value: 1}},
		Ratings: map[string]map[string]int{
			"cost": {"coast": 3, "mountains": 4, "city": 2},
			"time": {"coast": 4, "mountains": 2, "city": 5},
		},
	},
}

func main() {
	apiURL := flag.String("api", "http://localhost:8700", "decisiond API base URL")
	clientID := flag.String("client", "seeder", "X-Client-ID header value")
	dryRun := flag.Bool("dry-run", false, "evaluate without saving")
	flag.Parse()

	client := &http.Client{}
	saved, skipped := 0, 0
	for _, p := range samples {
		var res result
		status, err := post(client, *apiURL+"/api/v1/evaluate", *clientID, p, &res)
		if err != nil || status != http.StatusOK {
			log.Printf("skip %q: status %d: %v", p.Mission, status, err)
			skipped++
			continue
		}
		if len(res.Ranking) == 0 {
			log.Printf("skip %q: empty ranking", p.Mission)
			skipped++
			continue
		}

		s := summary{Mission: res.Mission, Winner: res.Ranking[0].Name, Score: res.Ranking[0].DisplayScore}
		for _, c := range res.Criteria {
			s.CriteriaWeights = append(s.CriteriaWeights, criterionWeight{Name: c.Criterion.Name, Weight: c.Weight})
		}
		fmt.Printf("%s -> %s (%.1f, consistent=%v)\n", s.Mission, s.Winner, s.Score, res.IsConsistent)
		if *dryRun {
			continue
		}

		status, err = post(client, *apiURL+"/api/v1/decisions", *clientID, s, nil)
		if err != nil || status != http.StatusCreated {
			log.Printf("skip saving %q: status %d: %v", p.Mission, status, err)
			skipped++
			continue
		}
		saved++
	}

	log.Printf("done: %d saved, %d skipped", saved, skipped)
}

func post(client *http.Client, url, clientID string, body, out interface{}) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequest("POST", url, bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", clientID)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}
