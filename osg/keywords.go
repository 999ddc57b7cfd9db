package osg

// DefaultKeywordRules returns the deployed SKU keyword table in matching
// order. Spellings ("DISPENCER", "CELLING FAN", "ROBO VACCUM CLEANER") are
// kept as they appear in the product master.
func DefaultKeywordRules() []KeywordRule {
	tv := []string{"TV", "TV 28 %", "TV 18 %"}
	return []KeywordRule{
		{
			Token: "Warranty : Water Cooler/Dispencer/Geyser/RoomCooler/Heater",
			Keywords: []string{
				"COOLER", "DISPENCER", "GEYSER", "ROOM COOLER", "HEATER", "WATER HEATER", "WATER DISPENSER",
			},
		},
		{
			Token: "Warranty : Fan/Mixr/IrnBox/Kettle/OTG/Grmr/Geysr/Steamr/Inductn",
			Keywords: []string{
				"FAN", "MIXER", "IRON BOX", "KETTLE", "OTG", "GROOMING KIT", "GEYSER", "STEAMER", "INDUCTION",
				"CEILING FAN", "TOWER FAN", "PEDESTAL FAN", "INDUCTION COOKER", "ELECTRIC KETTLE", "WALL FAN",
				"MIXER GRINDER", "CELLING FAN",
			},
		},
		{
			Token:    "AC : EWP : Warranty : AC",
			Keywords: []string{"AC", "AIR CONDITIONER", "AC INDOOR"},
		},
		{
			Token:    "HAEW : Warranty : Air Purifier/WaterPurifier",
			Keywords: []string{"AIR PURIFIER", "WATER PURIFIER"},
		},
		{
			Token:    "HAEW : Warranty : Dryer/MW/DishW",
			Keywords: []string{"DRYER", "MICROWAVE OVEN", "DISH WASHER", "MICROWAVE OVEN-CONV"},
		},
		{
			Token: "HAEW : Warranty : Ref/WM",
			Keywords: []string{
				"REFRIGERATOR", "WASHING MACHINE", "WASHING MACHINE-TL", "REFRIGERATOR-DC",
				"WASHING MACHINE-FL", "WASHING MACHINE-SA", "REF", "REFRIGERATOR-CBU", "REFRIGERATOR-FF", "WM",
			},
		},
		{Token: "HAEW : Warranty : TV", Keywords: tv},
		{Token: "TV : TTC : Warranty and Protection : TV", Keywords: tv},
		{Token: "TV : Spill and Drop Protection", Keywords: tv},
		{
			Token: "HAEW : Warranty :Chop/Blend/Toast/Air Fryer/Food Processr/JMG/Induction",
			Keywords: []string{
				"CHOPPER", "BLENDER", "TOASTER", "AIR FRYER", "FOOD PROCESSOR", "JUICER", "INDUCTION COOKER",
			},
		},
		{
			Token:    "HAEW : Warranty : HOB and Chimney",
			Keywords: []string{"HOB", "CHIMNEY"},
		},
		{
			Token:    "HAEW : Warranty : HT/SoundBar/AudioSystems/PortableSpkr",
			Keywords: []string{"HOME THEATRE", "AUDIO SYSTEM", "SPEAKER", "SOUND BAR", "PARTY SPEAKER"},
		},
		{
			Token: "HAEW : Warranty : Vacuum Cleaner/Fans/Groom&HairCare/Massager/Iron",
			Keywords: []string{
				"VACUUM CLEANER", "FAN", "MASSAGER", "IRON BOX", "CEILING FAN", "TOWER FAN", "PEDESTAL FAN",
				"WALL FAN", "ROBO VACCUM CLEANER",
			},
		},
		{Token: "AC AMC", Keywords: []string{"AC", "AC INDOOR"}},
	}
}
