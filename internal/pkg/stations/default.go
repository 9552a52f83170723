package stations

const DefaultVersion = "builtin/2024-01"

// Default returns the plant's station table, in floor order.
func Default() *Grouping {
	g, err := NewGrouping(DefaultVersion, []*Station{
		{Name: "Surtido", Machines: []string{"19 LENS LOG"}},
		{Name: "Bloqueo de tallado", Machines: []string{"220 SRFBLK 1", "221 SRFBLK 2", "222 SRFBLK 3", "223 SRFBLK 4", "224 SRFBLK 5", "225 SRFBLK 6"}},
		{Name: "Generado", Machines: []string{"241 GENERATOR 1", "242 GENERATOR 2", "245 ORBIT 1 LA", "246 ORBIT 2 LA", "244 ORBIT 3 LA", "243 ORBIT 4 LA", "247 SCHNIDER 1", "248 SCHNIDER 2"}},
		{Name: "Pulido", Machines: []string{"255 POLISHR 1", "257 POLISHR 3", "259 POLISHR 5", "262 POLISHR 8", "265 POLISHR 12", "266 MULTIFLEX 1", "267 MULTIFLEX 2", "268 MULTIFLEX 3", "269 MULTIFLEX 4", "254 IFLEX SRVR"}},
		{Name: "Engraver", Machines: []string{"270 ENGRVR 1", "271 ENGRVR 2", "272 ENGRVR 3", "273 ENGRVR 4"}},
		{Name: "Desbloqueo", Machines: []string{"320 DEBLOCKING 1"}},
		{Name: "AntiReflejante", Machines: []string{"91 VELOCITY 1", "92 VELOCITY 2", "52 FUSION", "53 1200 D", "55 TLF 1200.1", "56 TLF 1200.2"}},
		{Name: "Bloqueo de terminado", Machines: []string{"280 FINBLKR 1", "281 FINBLKR 2", "282 FINBLKR 3"}},
		{Name: "Biselado", Machines: []string{"300 EDGER 1", "301 EDGER 2", "302 EDGER 3", "303 EDGER 4", "304 EDGER 5", "305 EDGER 6", "306 EDGER 7", "307 EDGER 8", "308 EDGER 9", "309 EDGER 10", "310 EDGER 11", "311 EDFGER 12", "299 BISPHERA", "312 RAZR"}},
		{Name: "Producción", Machines: []string{"32 JOB COMPLETE"}},
	})
	if err != nil {
		panic(err)
	}
	return g
}
