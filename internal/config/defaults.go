package config

import "runtime"

const (
	defaultWorkDir        = "."
	defaultGameRoot       = `F:\SteamLibrary\steamapps\common\Pathfinder Second Adventure`
	defaultSoundBanksDir  = "Wrath_Data/StreamingAssets/Audio/GeneratedSoundBanks/Windows"
	defaultPackagesDir    = defaultSoundBanksDir + "/Packages"
	defaultManifest       = defaultSoundBanksDir + "/SoundbanksInfo.xml"
	defaultEventMap       = "Wrath_Data/StreamingAssets/Localization/Sound.json"
	defaultEventMapKey    = "strings"
	defaultArchiveExt     = ".pck"
	defaultToolsDir       = "Tools"
	defaultQuickBMSScript = "wwise_pck_extractor.bms"
	defaultEncodeCodec    = "aac"
	defaultEncodeBitrate  = "96k"
	defaultEncodeExt      = ".aac"
	defaultSkippedReport  = "skipped.txt"
	defaultCountsReport   = "count.txt"
	defaultIndexDB        = "export_index.db"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"

	// GameRootEnv, when set, overrides paths.game_root.
	GameRootEnv = "WOTR_AUDIO_GAME_ROOT"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:     defaultWorkDir,
			GameRoot:    defaultGameRoot,
			PackagesDir: defaultPackagesDir,
			Manifest:    defaultManifest,
			EventMap:    defaultEventMap,
			EventMapKey: defaultEventMapKey,
			ArchiveExt:  defaultArchiveExt,
		},
		Tools: Tools{
			Dir:            defaultToolsDir,
			QuickBMS:       executableName("quickbms"),
			QuickBMSScript: defaultQuickBMSScript,
			VGMStream:      executableName("vgmstream-cli"),
			FFmpeg:         executableName("ffmpeg"),
		},
		Encode: Encode{
			Codec:     defaultEncodeCodec,
			Bitrate:   defaultEncodeBitrate,
			Extension: defaultEncodeExt,
		},
		Reports: Reports{
			Skipped: defaultSkippedReport,
			Counts:  defaultCountsReport,
			IndexDB: defaultIndexDB,
			Summary: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}
