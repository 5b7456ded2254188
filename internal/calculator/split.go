package calculator

import (
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/money"
)

// PersonItem is one item's contribution to a person's share.
type PersonItem struct {
	ItemID string
	Name   string
	Amount money.Money // This person's rounded share of the item
}

// PersonSplit represents the calculated split for one person.
type PersonSplit struct {
	Subtotal money.Money
	Tax      money.Money
	Total    money.Money
	Items    []PersonItem
}

// CalculateSplit computes every participant's breakdown of items and tax.
//
// Algorithm:
//   - per-item share = price / len(item participants), rounded to cents per item
//   - subtotal accumulates those shares, re-rounding the running total after each addition
//   - a participant is involved when they belong to at least one item
//   - tax share = total_tax / len(involved), rounded, only when tax > 0, items exist
//     and someone is involved
//
// Every participant gets an entry, uninvolved ones with zeros. Items with no
// participants contribute nothing and are never divided.
func CalculateSplit(participants []models.Participant, items []models.LineItem, totalTax money.Money) map[string]*PersonSplit {
	splits := make(map[string]*PersonSplit, len(participants))
	for _, p := range participants {
		splits[p.ID] = &PersonSplit{}
	}

	var involved []string
	seenInvolved := make(map[string]bool)

	for _, item := range items {
		assigned := assignedParticipants(item, splits)
		perPerson, ok := item.Price.Div(len(assigned))
		if !ok {
			continue
		}
		perPerson = perPerson.Round()

		for _, id := range assigned {
			split := splits[id]
			split.Subtotal = split.Subtotal.Add(perPerson).Round()
			split.Items = append(split.Items, PersonItem{
				ItemID: item.ID,
				Name:   item.Name,
				Amount: perPerson,
			})
			if !seenInvolved[id] {
				seenInvolved[id] = true
				involved = append(involved, id)
			}
		}
	}

	taxShare := money.Zero()
	if totalTax.IsPositive() && len(items) > 0 {
		if share, ok := totalTax.Div(len(involved)); ok {
			taxShare = share.Round()
		}
	}

	for _, id := range involved {
		splits[id].Tax = taxShare
	}
	for _, split := range splits {
		split.Total = split.Subtotal.Add(split.Tax).Round()
	}

	return splits
}

// ComputeShares returns each participant's final share: items plus tax.
func ComputeShares(participants []models.Participant, items []models.LineItem, totalTax money.Money) map[string]money.Money {
	splits := CalculateSplit(participants, items, totalTax)
	shares := make(map[string]money.Money, len(splits))
	for id, split := range splits {
		shares[id] = split.Total
	}
	return shares
}

// TotalPrice sums the shares in participant order.
func TotalPrice(participants []models.Participant, shares map[string]money.Money) money.Money {
	values := make([]money.Money, 0, len(participants))
	for _, p := range participants {
		values = append(values, shares[p.ID])
	}
	return money.Sum(values...)
}

// assignedParticipants returns the item's distinct participants that exist in splits.
func assignedParticipants(item models.LineItem, splits map[string]*PersonSplit) []string {
	if len(item.ParticipantIDs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(item.ParticipantIDs))
	assigned := make([]string, 0, len(item.ParticipantIDs))
	for _, id := range item.ParticipantIDs {
		if _, exists := splits[id]; !exists || seen[id] {
			continue
		}
		seen[id] = true
		assigned = append(assigned, id)
	}
	return assigned
}
