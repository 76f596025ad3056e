package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"tsu-arena/internal/domain/battle"
	"tsu-arena/internal/domain/battle/replay"
	"tsu-arena/internal/domain/battle/stats"
	"tsu-arena/internal/modules/game/service"
	tsulog "tsu-arena/internal/pkg/log"
	"tsu-arena/internal/repository/impl"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	file     string
	battleID string
	skip     bool
	asJSON   bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("battle-replay-helper", flag.ContinueOnError)
	fs.StringVar(&opts.file, "file", "", "BattleResult JSON file, '-' for stdin")
	fs.StringVar(&opts.battleID, "battle-id", "", "Load an archived battle from TSU_GAME_DATABASE_URL instead of a file")
	fs.BoolVar(&opts.skip, "skip", false, "Jump straight to the final state")
	fs.BoolVar(&opts.asJSON, "json", false, "Print the final view and report as JSON")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if (opts.file == "") == (opts.battleID == "") {
		return opts, errors.New("exactly one of -file or -battle-id is required")
	}
	return opts, nil
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	result, err := load(opts, stdin)
	if err != nil {
		return err
	}

	var ticks []replay.TickEvent
	driver, err := replay.NewDriver(result, replay.WithListener(replay.ListenerFuncs{
		Tick: func(ev replay.TickEvent) { ticks = append(ticks, ev) },
	}))
	if err != nil {
		return fmt.Errorf("invalid battle log: %w", err)
	}

	driver.AdvanceToFighting()
	if opts.skip {
		driver.Skip()
	} else {
		for driver.AdvanceOneTick() {
		}
	}

	view := driver.View()
	report := driver.Report()

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"view": view, "report": report})
	}

	turns := driver.Turns()
	for _, ev := range ticks {
		fmt.Fprintln(stdout, describeTick(ev, turns[ev.Sequence]))
	}
	printSummary(stdout, view, report)
	return nil
}

func load(opts options, stdin io.Reader) (*battle.BattleResult, error) {
	if opts.battleID != "" {
		return loadFromDB(opts.battleID)
	}

	var (
		data []byte
		err  error
	)
	if opts.file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(opts.file)
	}
	if err != nil {
		return nil, fmt.Errorf("read battle log failed: %w", err)
	}
	return battle.Decode(data)
}

func loadFromDB(battleID string) (*battle.BattleResult, error) {
	dbURL := os.Getenv("TSU_GAME_DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("TSU_GAME_DATABASE_URL is required with -battle-id")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	records := service.NewBattleRecordService(impl.NewBattleRecordRepository(db), nil, nil, tsulog.Discard())
	return records.Get(ctx, battleID)
}

func describeTick(ev replay.TickEvent, turn battle.TurnRecord) string {
	hp := fmt.Sprintf("[%d | %d]", turn.HealthOf(battle.SideChallenger), turn.HealthOf(battle.SideOpponent))

	switch ev.Kind {
	case replay.EventDodge:
		return fmt.Sprintf("#%d %s -> %s: dodged %s", ev.Sequence, ev.Attacker, ev.Defender, hp)
	case replay.EventCritical:
		return fmt.Sprintf("#%d %s -> %s: %s CRITICAL %d %s", ev.Sequence, ev.Attacker, ev.Defender, ev.Skill, ev.Damage, hp)
	case replay.EventHit:
		return fmt.Sprintf("#%d %s -> %s: %s %d %s", ev.Sequence, ev.Attacker, ev.Defender, ev.Skill, ev.Damage, hp)
	case replay.EventHeal:
		return fmt.Sprintf("#%d %s: %s heal %d %s", ev.Sequence, ev.Attacker, ev.Skill, ev.Heal, hp)
	default:
		return fmt.Sprintf("#%d %s: %s %s", ev.Sequence, ev.Attacker, ev.Skill, hp)
	}
}

func printSummary(w io.Writer, view replay.View, report stats.Report) {
	fmt.Fprintf(w, "\nphase=%s cursor=%d/%d outcome=%s\n", view.Phase, view.Cursor, view.TotalTurns, view.Outcome)

	for _, side := range []battle.Side{battle.SideChallenger, battle.SideOpponent} {
		cv := view.For(side)
		st := report.For(side)
		fmt.Fprintf(w, "%s %s: hp %d/%d mana %d/%d | dealt %d taken %d healed %d crit %d dodge %d\n",
			side, cv.Name, cv.Health, cv.MaxHealth, cv.Mana, cv.MaxMana,
			st.DamageDealt, st.DamageTaken, st.HealingDone, st.CriticalHitCount, st.DodgeCount)

		for _, name := range st.SkillNames() {
			sk := st.BySkill[name]
			fmt.Fprintf(w, "    %-16s x%d damage %d healing %d max %d\n", name, sk.Count, sk.TotalDamage, sk.TotalHealing, sk.MaxSingleHit)
		}
	}
}
