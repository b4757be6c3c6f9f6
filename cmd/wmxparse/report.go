package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"wmx-replay/reconcile"
	"wmx-replay/replay"
	"wmx-replay/winamax"
)

func headerText(res *winamax.LogResult) string {
	h := res.Header
	return pterm.Sprintfln("Date: %s", h.Date.Format("2006-01-02 15:04:05 MST")) +
		pterm.Sprintfln("Buy-in: %s€ (%s€ + %s€)", h.BuyIn.StringFixed(2), h.BaseBuyIn.StringFixed(2), h.BaseFee.StringFixed(2)) +
		pterm.Sprintfln("Type: %s", h.TournamentType) +
		pterm.Sprintf("Hands: %d parsed / %d in file", len(res.Hands), res.HandsCount)
}

func handRows(hands []winamax.Hand, limit int) pterm.TableData {
	rows := pterm.TableData{{"#", "Hand", "Level", "Blinds", "Hero", "Cards", "Pos", "Board", "Pot"}}
	for i, h := range hands {
		if limit > 0 && i >= limit {
			break
		}
		rows = append(rows, []string{
			strconv.Itoa(h.HandNumber),
			h.HandID,
			strconv.Itoa(h.Level),
			h.Blinds,
			h.HeroName,
			h.HoleCards,
			h.HeroPosition,
			h.Board.String(),
			strconv.FormatInt(h.PotSize, 10),
		})
	}
	return rows
}

func errorRows(errs []winamax.HandError) pterm.TableData {
	rows := pterm.TableData{{"Block", "Reason", "Snippet"}}
	for _, e := range errs {
		rows = append(rows, []string{strconv.Itoa(e.Index), e.Reason, e.Snippet})
	}
	return rows
}

func tapeRows(tape *replay.ReplayTape) pterm.TableData {
	rows := pterm.TableData{{"Seq", "Event", "Detail"}}
	for _, ev := range tape.Events {
		rows = append(rows, []string{strconv.FormatUint(ev.Seq, 10), ev.Type, eventDetail(ev)})
	}
	return rows
}

func eventDetail(ev replay.ReplayEvent) string {
	switch v := ev.Value.(type) {
	case *replay.ActionResult:
		s := fmt.Sprintf("%s %s %d (pot %d)", v.Actor, v.Kind, v.Delta, v.PotTotal)
		if v.AllIn {
			s += " all-in"
		}
		return s
	case *replay.DealBoard:
		return strings.Join(v.Board, " ")
	case *replay.HandEnd:
		return fmt.Sprintf("pot %d rake %d", v.PotSize, v.Rake)
	default:
		return ""
	}
}

func summaryText(res reconcile.Result) string {
	s := pterm.Sprintfln("Entries: %d (re-entries %d, late %d)", res.TotalEntries, res.ReEntriesCount, res.LateRegistrationCount) +
		pterm.Sprintfln("Cost: %s€ (%s€ per entry)", res.TotalCost.StringFixed(2), res.SingleEntryCost.StringFixed(2)) +
		pterm.Sprintfln("Won: %s€ cash + %s€ bounty", res.TotalWinnings.StringFixed(2), res.TotalBounties.StringFixed(2))
	if res.FinalPosition > 0 {
		s += pterm.Sprintfln("Finished: %d / %d", res.FinalPosition, res.TotalPlayers)
	}
	if res.PlayTime != "" {
		s += pterm.Sprintfln("Played: %s", res.PlayTime)
	}
	pl := res.ProfitLoss.StringFixed(2) + "€"
	if res.ProfitLoss.IsNegative() {
		return s + "Result: " + pterm.LightRed(pl)
	}
	return s + "Result: " + pterm.LightGreen(pl)
}
