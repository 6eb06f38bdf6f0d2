// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CampaignTargetTable represents the 'campaign.target' table
type CampaignTargetTable struct {
	Table       string
	ID          string
	CampaignID  string
	Position    string
	Name        string
	Email       string
	PostalCode  string
	City        string
	Region      string
	CountryCode string
	Category    string
	ImageURL    string
	Latitude    string
	Longitude   string
	CreatedAt   string
}

// CampaignTarget is the schema definition for campaign.target
var CampaignTarget = CampaignTargetTable{
	Table:       "campaign.target",
	ID:          "id",
	CampaignID:  "campaignid",
	Position:    "position",
	Name:        "name",
	Email:       "email",
	PostalCode:  "postalcode",
	City:        "city",
	Region:      "region",
	CountryCode: "countrycode",
	Category:    "category",
	ImageURL:    "imageurl",
	Latitude:    "latitude",
	Longitude:   "longitude",
	CreatedAt:   "createdat",
}

// InsertColumns lists the columns written by a bulk insert, in bind order.
func (t CampaignTargetTable) InsertColumns() []string {
	return []string{
		t.ID, t.CampaignID, t.Position, t.Name, t.Email, t.PostalCode, t.City,
		t.Region, t.CountryCode, t.Category, t.ImageURL, t.Latitude, t.Longitude,
	}
}
