package main

import (
	"context"

	"github.com/15mga/hive"
	"github.com/15mga/hive/log"
	"github.com/15mga/hive/util"
)

func setupLogger(ctx context.Context, conf *Conf) *util.Err {
	levels := conf.Log.Level.Mask()
	if levels == 0 {
		levels = hive.LvlToMask(hive.DevLevels...)
	}
	loggers := make([]hive.ILogger, 0, len(conf.Log.Type))
	for _, typ := range conf.Log.Type {
		switch typ {
		case "std":
			loggers = append(loggers, log.NewStd(
				log.StdLogLvl(maskToLevels(levels)...),
				log.StdColor(conf.Log.Color),
			))
		case "file":
			loggers = append(loggers, log.NewStd(
				log.StdLogLvl(maskToLevels(levels)...),
				log.StdColor(false),
				log.StdFile(conf.Log.File, conf.Log.MaxSize, conf.Log.MaxAge),
			))
		case "zap":
			lowest := hive.TFatal
			for _, l := range maskToLevels(levels) {
				if l < lowest {
					lowest = l
				}
			}
			zl, err := log.NewZap(log.NewZapConfig(true, lowest))
			if err != nil {
				return err
			}
			hive.BeforeExitFn("zap", zl.Sync)
			loggers = append(loggers, zl)
		case "mgo":
			ml, err := log.NewMgo(ctx,
				log.MgoUri(conf.Log.Mongo),
				log.MgoDb(conf.Log.Db),
				log.MgoTtl(conf.Log.Ttl),
				log.MgoLogLvl(levelNames(levels)...),
			)
			if err != nil {
				return err
			}
			loggers = append(loggers, ml)
		default:
			return util.NewErr(util.EcParamsErr, util.M{
				"log type": typ,
			})
		}
	}
	hive.SetLogger(loggers...)
	hive.SetLogDefParams(util.M{
		"node": conf.Name,
	})
	return nil
}

func maskToLevels(mask hive.TLevel) []hive.TLevel {
	slc := make([]hive.TLevel, 0, len(hive.TestLevels))
	for _, l := range hive.TestLevels {
		if hive.HasLvl(l, mask) {
			slc = append(slc, l)
		}
	}
	return slc
}

func levelNames(mask hive.TLevel) []string {
	levels := maskToLevels(mask)
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = hive.LevelToStr(l)
	}
	return names
}
